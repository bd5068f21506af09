package checks

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ozzus/pingdumb/internal/domain"
)

func fakeExchange(replies map[string]time.Duration) exchangeFunc {
	return func(_ context.Context, msg *dns.Msg, addr string, _ time.Duration) (*dns.Msg, time.Duration, error) {
		rtt, ok := replies[addr]
		if !ok {
			return nil, 0, errors.New("i/o timeout")
		}

		resp := new(dns.Msg)
		resp.SetReply(msg)
		rr, err := dns.NewRR(msg.Question[0].Name + " 60 IN A 192.0.2.1")
		if err != nil {
			return nil, 0, err
		}
		resp.Answer = append(resp.Answer, rr)
		return resp, rtt, nil
	}
}

func TestDNSOneOfTwoServersFails(t *testing.T) {
	d := NewDNSChecker(filepath.Join(t.TempDir(), "missing.conf"), nil)
	d.exchange = fakeExchange(map[string]time.Duration{
		"10.0.0.1:53": 10 * time.Millisecond,
	})

	out, err := d.Run(context.Background(), "example.com", time.Second, Options{
		DNSServers: []string{"10.0.0.1", "10.0.0.2"},
	})
	require.NoError(t, err)

	payload, ok := out.(domain.DNSPayload)
	require.True(t, ok)

	assert.Equal(t, "A", payload.RecordType)
	assert.Equal(t, "example.com", payload.Target)
	assert.Equal(t, 2, payload.ServersTested)
	assert.Equal(t, 1, payload.SuccessfulQueries)
	assert.Equal(t, 50.0, payload.SuccessRate)
	assert.Equal(t, 10.0, payload.AvgResponseTime)
	assert.Equal(t, "10.0.0.1", payload.Summary.FastestServer)
	assert.Equal(t, "10.0.0.1", payload.Summary.SlowestServer)

	require.Len(t, payload.PerServerResults, 2)
	first, second := payload.PerServerResults[0], payload.PerServerResults[1]
	assert.True(t, first.Success)
	assert.Equal(t, []string{"192.0.2.1"}, first.Answers)
	require.NotNil(t, first.ResponseTime)
	assert.Equal(t, 10.0, *first.ResponseTime)
	assert.False(t, second.Success)
	assert.Nil(t, second.ResponseTime)
	assert.Equal(t, "i/o timeout", second.Error)
}

func TestDNSAllServersFailStillSucceeds(t *testing.T) {
	d := NewDNSChecker(filepath.Join(t.TempDir(), "missing.conf"), nil)
	d.exchange = fakeExchange(nil)

	out, err := d.Run(context.Background(), "example.com:AAAA", time.Second, Options{
		DNSServers: []string{"10.0.0.1", "10.0.0.2"},
	})
	require.NoError(t, err)

	payload := out.(domain.DNSPayload)
	assert.Equal(t, "AAAA", payload.RecordType)
	assert.Equal(t, 0, payload.SuccessfulQueries)
	assert.Equal(t, 0.0, payload.SuccessRate)
	assert.Equal(t, 0.0, payload.AvgResponseTime)
	assert.Empty(t, payload.Summary.FastestServer)
	assert.Empty(t, payload.Summary.SlowestServer)
}

func TestSummarizeDNSFastestSlowest(t *testing.T) {
	rt := func(v float64) *float64 { return &v }

	payload := summarizeDNS([]domain.DNSServerResult{
		{Server: "a", Success: true, ResponseTime: rt(30)},
		{Server: "b", Success: false, Error: "SERVFAIL"},
		{Server: "c", Success: true, ResponseTime: rt(5)},
		{Server: "d", Success: true, ResponseTime: rt(40)},
	})

	assert.Equal(t, 3, payload.SuccessfulQueries)
	assert.Equal(t, 75.0, payload.SuccessRate)
	assert.Equal(t, 25.0, payload.AvgResponseTime)
	assert.Equal(t, "c", payload.Summary.FastestServer)
	assert.Equal(t, "d", payload.Summary.SlowestServer)

	empty := summarizeDNS(nil)
	assert.Equal(t, 0, empty.ServersTested)
	assert.Equal(t, 0.0, empty.SuccessRate)
}

func TestDefaultServersFallback(t *testing.T) {
	assert.Equal(t, []string{"8.8.8.8", "1.1.1.1", "8.8.4.4", "1.0.0.1"},
		defaultServers(nil, DefaultFallbackServers))

	assert.Equal(t, []string{"192.168.1.1", "1.1.1.1", "8.8.8.8", "8.8.4.4", "1.0.0.1"},
		defaultServers([]string{"127.0.0.53", "192.168.1.1", "::1", "1.1.1.1", "192.168.1.1"}, DefaultFallbackServers))
}

func TestServersFromResolvConf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolv.conf")
	conf := "# generated\nnameserver 127.0.0.1\nnameserver 10.1.1.1\nnameserver 8.8.8.8\nsearch lan\n"
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o600))

	d := NewDNSChecker(path, nil)
	assert.Equal(t, []string{"10.1.1.1", "8.8.8.8", "1.1.1.1", "8.8.4.4", "1.0.0.1"}, d.Servers(Options{}))

	missing := NewDNSChecker(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Equal(t, DefaultFallbackServers, missing.Servers(Options{}))

	// explicit servers are used as given, duplicates included
	assert.Equal(t, []string{"9.9.9.9", "9.9.9.9"}, d.Servers(Options{DNSServers: []string{"9.9.9.9", " 9.9.9.9 "}}))
	assert.Equal(t, 4500*time.Millisecond, d.Budget(time.Second, Options{DNSServers: []string{"a", "b", "c"}}))
}

func TestDNSRecordsUnqueriedServersWhenDeadlinePasses(t *testing.T) {
	d := NewDNSChecker(filepath.Join(t.TempDir(), "missing.conf"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	d.exchange = func(ctx context.Context, _ *dns.Msg, _ string, _ time.Duration) (*dns.Msg, time.Duration, error) {
		<-ctx.Done()
		return nil, 0, errors.New("i/o timeout")
	}

	out, err := d.Run(ctx, "example.com", time.Second, Options{
		DNSServers: []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"},
	})
	require.NoError(t, err)

	payload, ok := out.(domain.DNSPayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.ServersTested)
	assert.Zero(t, payload.SuccessfulQueries)

	require.Len(t, payload.PerServerResults, 3)
	assert.Equal(t, "i/o timeout", payload.PerServerResults[0].Error)
	assert.Equal(t, "timeout", payload.PerServerResults[1].Error)
	assert.Equal(t, "timeout", payload.PerServerResults[2].Error)
	assert.Equal(t, "10.0.0.3", payload.PerServerResults[2].Server)
}

func TestParseDNSTarget(t *testing.T) {
	name, rtype, err := parseDNSTarget("example.com:mx")
	require.NoError(t, err)
	assert.Equal(t, "example.com", name)
	assert.Equal(t, "MX", rtype)

	_, rtype, err = parseDNSTarget("example.com")
	require.NoError(t, err)
	assert.Equal(t, "A", rtype)

	_, _, err = parseDNSTarget("example.com:BOGUS")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, _, err = parseDNSTarget(":A")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "1.1.1.1:53", serverAddr("1.1.1.1"))
	assert.Equal(t, "1.1.1.1:5353", serverAddr("1.1.1.1:5353"))
	assert.Equal(t, "[2001:4860:4860::8888]:53", serverAddr("2001:4860:4860::8888"))
}

func startDNSServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		Handler:           handler,
		NotifyStartedFunc: func() { close(started) },
	}

	go func() {
		_ = srv.ActivateAndServe()
	}()
	<-started

	t.Cleanup(func() {
		_ = srv.Shutdown()
	})

	return pc.LocalAddr().String()
}

func TestDNSAgainstLocalServers(t *testing.T) {
	good := startDNSServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		cname, _ := dns.NewRR(r.Question[0].Name + " 60 IN CNAME edge.example.net.")
		a, _ := dns.NewRR("edge.example.net. 60 IN A 198.51.100.7")
		m.Answer = append(m.Answer, cname, a)
		_ = w.WriteMsg(m)
	})
	broken := startDNSServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeServerFailure)
		_ = w.WriteMsg(m)
	})

	d := NewDNSChecker(filepath.Join(t.TempDir(), "missing.conf"), nil)

	out, err := d.Run(context.Background(), "www.example.com", 2*time.Second, Options{
		DNSServers: []string{good, broken},
	})
	require.NoError(t, err)

	payload := out.(domain.DNSPayload)
	assert.Equal(t, 1, payload.SuccessfulQueries)
	assert.Equal(t, 50.0, payload.SuccessRate)
	assert.Equal(t, good, payload.Summary.FastestServer)
	assert.Equal(t, good, payload.Summary.SlowestServer)
	assert.Equal(t, []string{"198.51.100.7"}, payload.PerServerResults[0].Answers)
	assert.Equal(t, "SERVFAIL", payload.PerServerResults[1].Error)
}
