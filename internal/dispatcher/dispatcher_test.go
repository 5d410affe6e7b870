package dispatcher

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codec8-svr/internal/codec"
	"codec8-svr/internal/config"
	"codec8-svr/internal/link"
	"codec8-svr/internal/pipeline"
)

const (
	frameSingle    = "000000000000003608010000016B40D8EA30010000000000000000000000000000000105021503010101425E0F01F10000601A014E0000000000000000010000C7CF"
	frameFourStale = "0000000000000036080400000113FC208DFF000F14F650209CCA80006F00D60400040004030101150316030001460000015D0000000113FC17610B000F14FFE0209CC580006E00C00500010004030101150316010001460000015E0000000113FC284945000F150F00209CD200009501080400000004030101150016030001460000015D0000000113FC267C5B000F150A50209CCCC0009300680400000004030101150016030001460000015B00040000C7CF"
)

type fakeStore struct {
	saved     []*pipeline.TrackingObject
	integrity map[string]int
	connected []string
	iccid     map[string]string
	saveErr   error
}

func (f *fakeStore) SaveTracking(_ context.Context, tr *pipeline.TrackingObject) error {
	f.saved = append(f.saved, tr)
	return f.saveErr
}

func (f *fakeStore) SaveIOStates(_ context.Context, _ string, perm map[string]uint64) ([]string, error) {
	var keys []string
	for k := range perm {
		keys = append(keys, k)
	}
	return keys, f.saveErr
}

func (f *fakeStore) IncIntegrity(_ context.Context, _ string, kind string) (int64, error) {
	if f.integrity == nil {
		f.integrity = map[string]int{}
	}
	f.integrity[kind]++
	return int64(f.integrity[kind]), nil
}

func (f *fakeStore) MarkConnected(_ context.Context, imei, remote string, _ time.Time) error {
	f.connected = append(f.connected, imei+"@"+remote)
	return nil
}

func (f *fakeStore) ICCID(_ context.Context, imei string) (string, error) {
	return f.iccid[imei], nil
}

type fakeNotifier struct{ events []link.DeviceInfo }

func (f *fakeNotifier) SendDeviceEvent(info link.DeviceInfo) error {
	f.events = append(f.events, info)
	return nil
}

type fakeSink struct {
	got []*pipeline.TrackingObject
	err error
}

func (f *fakeSink) SendTracking(_ context.Context, tr *pipeline.TrackingObject) error {
	f.got = append(f.got, tr)
	return f.err
}

func decode(t *testing.T, s string) codec.Decoded {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	d, _, err := codec.DecodeCodec8(b)
	require.NoError(t, err)
	return d
}

func newDispatcher(policy string, st Store, sinks map[string]Sink) *Dispatcher {
	d := New(slog.New(slog.NewTextHandler(io.Discard, nil)), policy, st, sinks)
	d.now = func() time.Time { return time.Date(2019, 6, 10, 10, 5, 0, 0, time.UTC) }
	return d
}

func TestProcessIncoming_ValidFrame(t *testing.T) {
	st := &fakeStore{}
	grpcSink, linkSink := &fakeSink{}, &fakeSink{err: errors.New("link: not connected")}
	d := newDispatcher(config.PolicyDrop, st, map[string]Sink{"grpc": grpcSink, "link": linkSink})

	out := d.ProcessIncoming(context.Background(), "356307042441013", decode(t, frameSingle))
	require.Len(t, out, 1)

	tr := out[0]
	assert.Equal(t, "356307042441013", tr.IMEI)
	assert.Equal(t, "2019-06-10T10:04:46Z", tr.Datetime)
	assert.True(t, tr.CRCOk)
	assert.Equal(t, 1, tr.MsgType)
	assert.Equal(t, 0, tr.Fix)
	assert.Equal(t, uint64(24079), tr.PermIO["ext_volt"])
	assert.Equal(t, uint64(3), tr.PermIO["gsm_signal"])

	assert.Len(t, st.saved, 1)
	assert.Empty(t, st.integrity)
	assert.Len(t, grpcSink.got, 1)
	assert.Len(t, linkSink.got, 1, "a failing sink is still attempted")
}

func TestProcessIncoming_DropPolicy(t *testing.T) {
	st := &fakeStore{}
	sink := &fakeSink{}
	d := newDispatcher(config.PolicyDrop, st, map[string]Sink{"grpc": sink})

	out := d.ProcessIncoming(context.Background(), "1", decode(t, frameFourStale))
	assert.Nil(t, out)
	assert.Empty(t, st.saved)
	assert.Empty(t, sink.got)
	assert.Equal(t, map[string]int{"checksum_mismatch": 1, "data_length_mismatch": 1}, st.integrity)
}

func TestProcessIncoming_AcceptPolicy(t *testing.T) {
	st := &fakeStore{}
	sink := &fakeSink{}
	d := newDispatcher(config.PolicyAccept, st, map[string]Sink{"grpc": sink})

	out := d.ProcessIncoming(context.Background(), "1", decode(t, frameFourStale))
	require.Len(t, out, 4)
	for _, tr := range out {
		assert.False(t, tr.CRCOk)
		assert.Equal(t, 0, tr.MsgType, "multi-record frames are buffered data")
		assert.Equal(t, 1, tr.Fix)
	}
	assert.Equal(t, 25.3032016, out[0].Lon)
	assert.Len(t, st.saved, 4)
	assert.Len(t, sink.got, 4)
	assert.Equal(t, 1, st.integrity["checksum_mismatch"])
}

func TestProcessIncoming_NilStore(t *testing.T) {
	sink := &fakeSink{}
	d := newDispatcher(config.PolicyDrop, nil, map[string]Sink{"grpc": sink})
	out := d.ProcessIncoming(context.Background(), "1", decode(t, frameSingle))
	assert.Len(t, out, 1)
	assert.Len(t, sink.got, 1)
}

func TestConnectAndDisconnect(t *testing.T) {
	st := &fakeStore{}
	n := &fakeNotifier{}
	d := newDispatcher(config.PolicyDrop, st, nil).WithNotifier(n)
	remote := &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 40211}

	d.OnConnect(context.Background(), "356307042441013", remote)
	d.OnDisconnect(context.Background(), "356307042441013", remote)

	assert.Equal(t, []string{"356307042441013@10.0.0.7:40211"}, st.connected)
	require.Len(t, n.events, 2)
	assert.Equal(t, link.DeviceInfo{IMEI: "356307042441013", RemoteIP: "10.0.0.7", RemotePort: 40211, State: link.DeviceStateConnect}, n.events[0])
	assert.Equal(t, link.DeviceStateDisconnect, n.events[1].State)
}

func TestOnConnect_SendsStoredICCID(t *testing.T) {
	st := &fakeStore{iccid: map[string]string{"356307042441013": "8952020924380762238"}}
	n := &fakeNotifier{}
	d := newDispatcher(config.PolicyDrop, st, nil).WithNotifier(n)

	d.OnConnect(context.Background(), "356307042441013", &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 40211})
	d.OnConnect(context.Background(), "356307042441099", &net.TCPAddr{IP: net.IPv4(10, 0, 0, 8), Port: 40212})

	require.Len(t, n.events, 2)
	assert.Equal(t, "8952020924380762238", n.events[0].ICCID)
	assert.Empty(t, n.events[1].ICCID)
}
