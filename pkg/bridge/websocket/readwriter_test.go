package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriterEcho(t *testing.T) {
	srv := httptest.NewServer(Handler(context.Background(), func(ctx context.Context, rw *ReadWriter) error {
		for {
			pkt, err := rw.ReadPacket()
			if err != nil {
				return err
			}
			if err = rw.WritePacket(pkt); err != nil {
				return err
			}
		}
	}))
	defer srv.Close()

	rw, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), srv.URL)
	require.NoError(t, err)
	defer rw.Close()
	for _, pkt := range [][]byte{{1, 0x21, 9}, {0xff, 0, 0x80}} {
		require.NoError(t, rw.WritePacket(pkt))
		echoed, err := rw.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, pkt, echoed)
	}
}
