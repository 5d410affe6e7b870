// Command codec8dump decodifica tráfico Codec 8 en hex y lo imprime como
// JSON, un objeto por handshake o frame.
//
//	codec8dump 000F333536333037303432343431303133 00000000000000360801...
//	cat capture.hex | codec8dump
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"codec8-svr/internal/codec"
)

type output struct {
	IMEI      string         `json:"imei,omitempty"`
	Decoded   *codec.Decoded `json:"decoded,omitempty"`
	Integrity string         `json:"integrity_error,omitempty"`
}

func main() {
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 1<<16), 1<<20)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "read stdin:", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, in := range inputs {
		data, err := hex.DecodeString(strings.ReplaceAll(in, " ", ""))
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad hex:", err)
			os.Exit(1)
		}
		if err := dump(enc, data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// dump decodifica un buffer que puede empezar con el handshake IMEI y traer
// varios frames seguidos.
func dump(enc *json.Encoder, data []byte) error {
	if imei, rest, err := codec.DecodeIMEI(data); err == nil {
		if err := enc.Encode(output{IMEI: imei}); err != nil {
			return err
		}
		data = rest
	}
	for len(data) > 0 {
		dec, rest, err := codec.DecodeCodec8(data)
		if err != nil {
			return err
		}
		out := output{Decoded: &dec}
		if ierr := dec.IntegrityErr(); ierr != nil {
			out.Integrity = ierr.Error()
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
		data = rest
	}
	return nil
}
