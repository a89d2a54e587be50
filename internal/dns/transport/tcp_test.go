package transport

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPTransportRoundTrip(t *testing.T) {
	tr := NewTCPTransport("127.0.0.1:0", echoHandler(), log.NewNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, tr.Start(ctx))
	defer tr.Stop()

	conn, err := net.Dial("tcp", tr.ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	name, _ := label.Parse("example.com.")
	q := record.Message{ID: 77, RD: true}
	q.AddQuestion(record.Question{Name: name, QType: codes.TypeA, Class: codes.ClassIN})
	data, err := q.Pack()
	require.NoError(t, err)

	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(data)))
	_, err = conn.Write(append(lenBuf[:], data...))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var respLen [2]byte
	_, err = io.ReadFull(conn, respLen[:])
	require.NoError(t, err)
	body := make([]byte, binary.BigEndian.Uint16(respLen[:]))
	_, err = io.ReadFull(conn, body)
	require.NoError(t, err)

	reply, err := record.Parse(body)
	require.NoError(t, err)
	assert.Equal(t, uint16(77), reply.ID)
	assert.True(t, reply.QR)
}

func TestTCPTransportStopClosesListener(t *testing.T) {
	tr := NewTCPTransport("127.0.0.1:0", echoHandler(), log.NewNoopLogger())
	require.NoError(t, tr.Start(context.Background()))
	addr := tr.ln.Addr().String()
	require.NoError(t, tr.Stop())

	_, err := net.Dial("tcp", addr)
	assert.Error(t, err)
}
