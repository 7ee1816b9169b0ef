// Package broker runs an in-process MQTT broker for tests.
package broker

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
)

type Broker struct {
	Host string
	Port int

	server    *mqtt.Server
	closeOnce sync.Once
}

// Start launches a broker on a free loopback port that accepts every
// client, and stops it when the test ends.
func Start(t testing.TB) *Broker {
	t.Helper()

	port := freePort(t)
	server := mqtt.New(nil)
	_ = server.AddHook(new(auth.AllowHook), nil)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: addr})
	if err := server.AddListener(tcp); err != nil {
		t.Fatalf("add listener: %v", err)
	}

	go func() {
		if err := server.Serve(); err != nil {
			t.Logf("broker serve: %v", err)
		}
	}()
	b := &Broker{Host: "127.0.0.1", Port: port, server: server}
	t.Cleanup(b.Close)

	waitListening(t, addr)
	return b
}

// Close stops the broker and drops every client. Safe to call twice.
func (b *Broker) Close() {
	b.closeOnce.Do(func() { _ = b.server.Close() })
}

// URL is the paho server URL of the broker.
func (b *Broker) URL() string {
	return fmt.Sprintf("tcp://%s:%d", b.Host, b.Port)
}

func freePort(t testing.TB) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func waitListening(t testing.TB, addr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("broker did not start on %s", addr)
}
