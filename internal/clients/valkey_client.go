package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient is shared by the consumer loop and the health monitor. The
// underlying connection can be replaced by recreateClient, so it is only
// reached through Conn.
type ValkeyClient struct {
	conn valkey.Client
	opts valkey.ClientOption
	ttl  time.Duration
	mu   sync.RWMutex
}

const VALKEY_FEEDBACK_KEY = "feedback:processed"

func valkeyOptions(cfg config.Config) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.ValkeyAddress,
		},
		Password:         cfg.ValkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.ValkeyTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return client, nil
}

func InitValkey(cfg config.Config) (*ValkeyClient, error) {
	var initErr error
	valkeyOnce.Do(func() {
		opts := valkeyOptions(cfg)
		client, err := connectValkey(opts)
		if err != nil {
			initErr = err
			return
		}
		valkeyInstance = &ValkeyClient{conn: client, opts: opts, ttl: cfg.ProcessedTTL}
	})
	if initErr != nil {
		return nil, initErr
	}
	if valkeyInstance == nil {
		return nil, fmt.Errorf("[ValkeyClient] Valkey client is not initialized")
	}
	return valkeyInstance, nil
}

func (vc *ValkeyClient) Conn() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.conn
}

// swap installs client and returns the connection it replaced.
func (vc *ValkeyClient) swap(client valkey.Client) valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	old := vc.conn
	vc.conn = client
	return old
}

func (vc *ValkeyClient) recreateClient() {
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")

	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}
	if old := vc.swap(client); old != nil {
		old.Close()
	}
}

func CloseValkey() {
	if valkeyInstance != nil {
		if conn := valkeyInstance.Conn(); conn != nil {
			conn.Close()
		}
	}
}

// MarkProcessed records feedback IDs so redelivered messages are skipped.
func (vc *ValkeyClient) MarkProcessed(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	conn := vc.Conn()
	completed := []valkey.Completed{
		conn.B().Sadd().Key(VALKEY_FEEDBACK_KEY).Member(ids...).Build(),
		conn.B().Expire().Key(VALKEY_FEEDBACK_KEY).Seconds(ttlSeconds(vc.ttl)).Build(),
	}

	responses := vc.DoMultiWithRetry(ctx, completed, 3)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyClient] failed to mark feedback processed: %w", err)
		}
	}

	slog.Debug("[ValkeyClient] Marked feedback as processed",
		slog.Int("count", len(ids)))
	return nil
}

// IsProcessed reports whether id was already analyzed. Lookup failures count
// as not processed; analysis is idempotent so a duplicate is harmless.
func (vc *ValkeyClient) IsProcessed(ctx context.Context, id string) bool {
	res := vc.DoWithRetry(ctx, vc.Conn().B().Sismember().Key(VALKEY_FEEDBACK_KEY).Member(id).Build(), 3)

	if err := res.Error(); isConnectionError(err) {
		vc.recreateClient()
	}

	ok, err := res.AsBool()
	if err != nil {
		return false
	}

	return ok
}

// Ping is used by the health monitor.
func (vc *ValkeyClient) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn := vc.Conn()
	return conn.Do(ctx, conn.B().Ping().Build()).Error() == nil
}

func ttlSeconds(ttl time.Duration) int64 {
	if ttl < time.Second {
		return 86400
	}
	return int64(ttl / time.Second)
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Conn().DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Conn().Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
