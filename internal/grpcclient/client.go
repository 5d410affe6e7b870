package grpcclient

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"codec8-svr/internal/pipeline"
)

// SendDataMethod recibe un google.protobuf.Struct y responde un
// google.protobuf.BoolValue con el resultado.
const SendDataMethod = "/forwarder.Forwarder/SendData"

const sendTimeout = 5 * time.Second

type GRPCClient struct {
	conn *grpc.ClientConn
}

func NewGRPCClient(addr string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn}, nil
}

func (g *GRPCClient) Close() error {
	return g.conn.Close()
}

// SendTracking reenvía el tracking al forwarder.
func (g *GRPCClient) SendTracking(ctx context.Context, tr *pipeline.TrackingObject) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := structpb.NewStruct(tr.AsMap())
	if err != nil {
		return fmt.Errorf("forwarder: build request: %w", err)
	}

	res := &wrapperspb.BoolValue{}
	if err := g.conn.Invoke(ctx, SendDataMethod, req, res); err != nil {
		return err
	}
	if !res.GetValue() {
		return fmt.Errorf("forwarder: rejected data for device %s", tr.IMEI)
	}
	return nil
}
