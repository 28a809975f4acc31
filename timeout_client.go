package sheetcms

import (
	"context"
	"net"
	"net/http"
	"time"
)

// TimeoutDialer bounds the connect phase by ct and every read and write on
// the resulting connection by rwt.
func TimeoutDialer(ct time.Duration, rwt time.Duration) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: ct}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		conn.SetDeadline(time.Now().Add(rwt))
		return conn, nil
	}
}

func NewTimeoutClient(connectTimeout time.Duration, readWriteTimeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DialContext:       TimeoutDialer(connectTimeout, readWriteTimeout),
			DisableKeepAlives: true,
		},
	}
}
