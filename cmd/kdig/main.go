// Command kdig sends a single DNS query to a server and prints the reply in
// the same section-oriented debug text `dig +qr` prints, which wire/dig can
// parse back for fixture comparisons.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"os"
	"strings"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/common/clock"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// clk is the source of "now" for round-trip timing and the report's WHEN
// line, swappable in tests for a clock.MockClock.
var clk clock.Clock = clock.RealClock{}

func main() {
	tcp := flag.Bool("tcp", false, "use TCP instead of UDP")
	timeout := flag.Duration("timeout", 5*time.Second, "query timeout")
	qtypeName := flag.String("type", "A", "query type (A, AAAA, MX, TXT, ...)")
	server := flag.String("server", "127.0.0.1:53", "DNS server to query, host:port")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: kdig [-server host:port] [-type TYPE] [-tcp] [-timeout d] name")
		os.Exit(2)
	}

	if err := run(*server, flag.Arg(0), *qtypeName, *tcp, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "kdig: %v\n", err)
		os.Exit(1)
	}
}

func run(server, name, qtypeName string, tcp bool, timeout time.Duration) error {
	qname, err := label.Parse(ensureTrailingDot(name))
	if err != nil {
		return fmt.Errorf("invalid name %q: %w", name, err)
	}
	qtype, err := codes.ParseRRType(strings.ToUpper(qtypeName))
	if err != nil {
		return fmt.Errorf("invalid type %q: %w", qtypeName, err)
	}

	query := record.Message{ID: uint16(rand.Intn(1 << 16)), RD: true}
	query.AddQuestion(record.Question{Name: qname, QType: qtype, Class: codes.ClassIN})

	network := "udp"
	if tcp {
		network = "tcp"
	}

	reply, elapsed, err := send(network, server, query, timeout)
	if err != nil {
		return err
	}

	fmt.Print(reply.String())
	fmt.Fprintf(os.Stdout, ";; Query time: %d msec\n;; SERVER: %s (%s)\n;; WHEN: %s\n",
		elapsed.Milliseconds(), server, network, clk.Now().Format(time.RFC1123Z))
	return nil
}

func send(network, server string, query record.Message, timeout time.Duration) (*record.Message, time.Duration, error) {
	conn, err := net.DialTimeout(network, server, timeout)
	if err != nil {
		return nil, 0, fmt.Errorf("dial %s: %w", server, err)
	}
	defer conn.Close()

	data, err := query.Pack()
	if err != nil {
		return nil, 0, fmt.Errorf("pack query: %w", err)
	}

	start := clk.Now()
	conn.SetDeadline(start.Add(timeout))

	if network == "tcp" {
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(len(data)))
		if _, err := conn.Write(append(lenBuf[:], data...)); err != nil {
			return nil, 0, fmt.Errorf("write query: %w", err)
		}
		var respLen [2]byte
		if _, err := io.ReadFull(conn, respLen[:]); err != nil {
			return nil, 0, fmt.Errorf("read response length: %w", err)
		}
		body := make([]byte, binary.BigEndian.Uint16(respLen[:]))
		if _, err := io.ReadFull(conn, body); err != nil {
			return nil, 0, fmt.Errorf("read response body: %w", err)
		}
		elapsed := clk.Now().Sub(start)
		reply, err := record.Parse(body)
		if err != nil {
			return nil, 0, fmt.Errorf("parse response: %w", err)
		}
		return reply, elapsed, nil
	}

	if _, err := conn.Write(data); err != nil {
		return nil, 0, fmt.Errorf("write query: %w", err)
	}
	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	elapsed := clk.Now().Sub(start)
	reply, err := record.Parse(buf[:n])
	if err != nil {
		return nil, 0, fmt.Errorf("parse response: %w", err)
	}
	return reply, elapsed, nil
}

func ensureTrailingDot(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}
