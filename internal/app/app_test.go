package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zapret/internal/app"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app      *app.App
	executor *mocks.MockExecutor
	store    *mocks.MockLogStore
	logger   *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	provider := mocks.NewMockExecutorProvider(ctrl)
	provider.EXPECT().Current().Return(executor, nil).AnyTimes()
	store := mocks.NewMockLogStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	return &fixture{
		app:      app.New(provider, store, logger),
		executor: executor,
		store:    store,
		logger:   logger,
	}
}

// expect records the next command into *cmd and answers with res and err.
func (f *fixture) expect(cmd *string, timeout time.Duration, res domain.ExecResult, err error) *gomock.Call {
	return f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), timeout).
		DoAndReturn(func(_ context.Context, command string, _ time.Duration) (domain.ExecResult, error) {
			if cmd != nil {
				*cmd = command
			}
			return res, err
		})
}

func exitErr(stdout, stderr string) error {
	return &domain.ExecError{Kind: domain.ExecExit, ExitCode: 1, Stdout: stdout, Stderr: stderr}
}

func TestApp_NotInitialized(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockExecutorProvider(ctrl)
	provider.EXPECT().Current().Return(nil, domain.ErrExecutorNotInitialized).AnyTimes()
	a := app.New(provider, mocks.NewMockLogStore(ctrl), mocks.NewMockLogger(ctrl))

	res := a.GetStatus(context.Background())
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: command executor not initialized", res.Text)
	assert.Equal(t, "uninitialized", a.ExecutorLabel())

	_, err := a.Exec(context.Background(), "true", 0)
	require.ErrorIs(t, err, domain.ErrExecutorNotInitialized)
}

func TestApp_ExecutorLabel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.executor.EXPECT().Label().Return("local")
	assert.Equal(t, "local", f.app.ExecutorLabel())
}

func TestApp_GetStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var cmd string
	f.expect(&cmd, 0, domain.ExecResult{Stdout: "  {\"running\": true}\n"}, nil)

	res := f.app.GetStatus(context.Background())
	assert.False(t, res.IsError)
	assert.Equal(t, `{"running": true}`, res.Text)
	assert.Contains(t, cmd, "pgrep -x nfqws2")
}

func TestApp_GetStatus_Failure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 0, domain.ExecResult{}, exitErr("", "pgrep: not found"))

	res := f.app.GetStatus(context.Background())
	assert.True(t, res.IsError)
	assert.Equal(t, "Error: pgrep: not found", res.Text)
}

func TestApp_ServiceActions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		action   string
		fallback string
		run      func(*app.App, context.Context) domain.OperationResult
	}{
		{name: "start", action: "start", fallback: "Service started", run: (*app.App).StartService},
		{name: "stop", action: "stop", fallback: "Service stopped", run: (*app.App).StopService},
		{name: "restart", action: "restart", fallback: "Service restarted", run: (*app.App).RestartService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			t.Run("output", func(t *testing.T) {
				t.Parallel()
				f := newFixture(t)
				var cmd string
				f.expect(&cmd, 0, domain.ExecResult{Stdout: "ok\n", Stderr: "warn\n"}, nil)
				f.store.EXPECT().Save(domain.LogService, "ok\nwarn", map[string]string{"action": tt.action}).Return("ts", nil)

				res := tt.run(f.app, context.Background())
				assert.False(t, res.IsError)
				assert.Equal(t, "ok\nwarn", res.Text)
				assert.Contains(t, cmd, "$SUDO /opt/zapret2/init.d/sysv/zapret2 "+tt.action)
			})

			t.Run("fallback", func(t *testing.T) {
				t.Parallel()
				f := newFixture(t)
				f.expect(nil, 0, domain.ExecResult{}, nil)
				f.store.EXPECT().Save(domain.LogService, tt.fallback, map[string]string{"action": tt.action}).Return("ts", nil)

				res := tt.run(f.app, context.Background())
				assert.Equal(t, domain.Success(tt.fallback), res)
			})

			t.Run("failure", func(t *testing.T) {
				t.Parallel()
				f := newFixture(t)
				f.expect(nil, 0, domain.ExecResult{}, exitErr("out ", "err"))

				res := tt.run(f.app, context.Background())
				assert.Equal(t, domain.Failure("Error: out err"), res)
			})
		})
	}
}

func TestApp_SaveFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 0, domain.ExecResult{Stdout: "started"}, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return("", domain.ErrLogStoreWriteFailed)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrLogStoreWriteFailed)
	})

	res := f.app.StartService(context.Background())
	assert.Equal(t, domain.Success("started"), res)
}

func TestApp_GetConfig(t *testing.T) {
	t.Parallel()

	t.Run("full file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 0, domain.ExecResult{Stdout: "MODE=nfqws2\n"}, nil)

		res := f.app.GetConfig(context.Background(), "")
		assert.Equal(t, domain.Success("MODE=nfqws2"), res)
		assert.Equal(t, "cat /opt/zapret2/config", cmd)
	})

	t.Run("single key", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 0, domain.ExecResult{Stdout: "Key 'FOO' not found\n"}, nil)

		res := f.app.GetConfig(context.Background(), "FOO")
		assert.Equal(t, domain.Success("Key 'FOO' not found"), res)
		assert.True(t, strings.HasPrefix(cmd, "KEY=FOO\n"))
	})

	t.Run("rejects unsafe key", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res := f.app.GetConfig(context.Background(), "FOO;reboot")
		assert.True(t, res.IsError)
		assert.Equal(t, "Error: key must contain only alphanumeric characters and underscores", res.Text)
	})
}

func TestApp_UpdateConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var update string
	gomock.InOrder(
		f.expect(nil, 0, domain.ExecResult{Stdout: "NFQWS2_ENABLE=0\n"}, nil),
		f.store.EXPECT().
			Save(domain.LogConfig, "NFQWS2_ENABLE=0\n", map[string]string{"key": "NFQWS2_ENABLE", "value": "1"}).
			Return("ts", nil),
		f.expect(&update, 0, domain.ExecResult{Stdout: "Updated NFQWS2_ENABLE\nNFQWS2_ENABLE=\"1\"\n"}, nil),
	)

	res := f.app.UpdateConfig(context.Background(), "NFQWS2_ENABLE", "1")
	assert.Equal(t, domain.Success("Updated NFQWS2_ENABLE\nNFQWS2_ENABLE=\"1\""), res)
	assert.Contains(t, update, "KEY=NFQWS2_ENABLE\n")
	assert.Contains(t, update, "VALUE=1\n")
}

func TestApp_UpdateConfig_InvalidKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.app.UpdateConfig(context.Background(), "A-B", "1")
	assert.True(t, res.IsError)
}

func TestApp_UpdateConfig_SnapshotFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 0, domain.ExecResult{}, exitErr("", "cat: /opt/zapret2/config: No such file or directory"))

	res := f.app.UpdateConfig(context.Background(), "MODE", "nfqws2")
	assert.Equal(t, domain.Failure("Error: cat: /opt/zapret2/config: No such file or directory"), res)
}

const blockcheckTranscript = `* checking domain example.com
- curl test
!!!!! AVAILABLE !!!!!
nfqws2 --dpi-desync=split2
* SUMMARY
done`

func TestApp_RunBlockcheck(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var cmd string
	f.expect(&cmd, 300*time.Second, domain.ExecResult{Stdout: blockcheckTranscript + "\n"}, nil)
	f.store.EXPECT().
		Save(domain.LogBlockcheck, blockcheckTranscript, map[string]string{"domain": "example.com", "ipVersion": "4"}).
		Return("2025-03-01T10-20-30", nil)

	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{})
	require.False(t, res.IsError)
	assert.Equal(t,
		"!!!!! AVAILABLE !!!!!\nnfqws2 --dpi-desync=split2\n* SUMMARY\n\nFull log: zapret2://logs/blockcheck/2025-03-01T10-20-30",
		res.Text,
	)
	assert.Contains(t, cmd, "DOMAIN=example.com\n")
	assert.Contains(t, cmd, "IP_VERSION=4\n")
}

func TestApp_RunBlockcheck_NoStrategies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 300*time.Second, domain.ExecResult{Stdout: "nothing useful"}, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return("ts1", nil)

	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{Domain: "rutracker.org", IPVersion: domain.IPv46})
	assert.Equal(t, domain.Success("No AVAILABLE strategies found\n\nFull log: zapret2://logs/blockcheck/ts1"), res)
}

func TestApp_RunBlockcheck_NonZeroExitWithTranscript(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	long := blockcheckTranscript + "\n" + strings.Repeat("x", 100)
	f.expect(nil, 300*time.Second, domain.ExecResult{}, exitErr(long, "tail"))
	f.store.EXPECT().
		Save(domain.LogBlockcheck, long+"tail", map[string]string{"domain": "example.com", "ipVersion": "4"}).
		Return("ts2", nil)

	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{})
	assert.False(t, res.IsError)
	assert.True(t, strings.HasSuffix(res.Text, "Full log: zapret2://logs/blockcheck/ts2"))
}

func TestApp_RunBlockcheck_Failure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 300*time.Second, domain.ExecResult{}, exitErr("", "blockcheck2.sh: not found"))
	f.store.EXPECT().
		Save(domain.LogBlockcheck, "blockcheck2.sh: not found",
			map[string]string{"domain": "example.com", "ipVersion": "4", "error": "true"}).
		Return("ts3", nil)

	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{})
	assert.Equal(t, domain.Failure("Error running blockcheck2: blockcheck2.sh: not found"), res)
}

func TestApp_RunBlockcheck_TimeoutWithoutOutput(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 300*time.Second, domain.ExecResult{},
		&domain.ExecError{Kind: domain.ExecTimeout, Timeout: 300 * time.Second, Err: context.DeadlineExceeded})

	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{})
	assert.Equal(t, domain.Failure("Error running blockcheck2: command timed out after 5m0s"), res)
}

func TestApp_RunBlockcheck_SaveFailureOmitsLocator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expect(nil, 300*time.Second, domain.ExecResult{Stdout: "AVAILABLE split2"}, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return("", domain.ErrLogStoreCreateFailed)
	f.logger.EXPECT().Error(gomock.Any())

	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{})
	assert.Equal(t, domain.Success("AVAILABLE split2"), res)
}

func TestApp_RunBlockcheck_InvalidIPVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.app.RunBlockcheck(context.Background(), domain.BlockcheckRequest{IPVersion: "5"})
	assert.True(t, res.IsError)
}

func TestApp_Probes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		marker  string
		run     func(*app.App, context.Context) domain.OperationResult
	}{
		{name: "prerequisites", timeout: 15 * time.Second, marker: "nfqwsBinaryExists", run: (*app.App).CheckPrerequisites},
		{name: "detect", timeout: 10 * time.Second, marker: "systemdResolved", run: (*app.App).DetectSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			var cmd string
			f.expect(&cmd, tt.timeout, domain.ExecResult{Stdout: "{}\n"}, nil)

			assert.Equal(t, domain.Success("{}"), tt.run(f.app, context.Background()))
			assert.Contains(t, cmd, tt.marker)
		})
	}
}

func TestApp_InstallZapret(t *testing.T) {
	t.Parallel()

	t.Run("installs", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 120*time.Second, domain.ExecResult{Stdout: "INSTALL_OK\nVersion: v0.9.4.1\n"}, nil)
		f.store.EXPECT().
			Save(domain.LogService, "INSTALL_OK\nVersion: v0.9.4.1", map[string]string{"action": "install", "version": "v0.9.4.1"}).
			Return("ts", nil)

		res := f.app.InstallZapret(context.Background(), domain.InstallRequest{})
		assert.Equal(t, domain.Success("INSTALL_OK\nVersion: v0.9.4.1"), res)
		assert.Contains(t, cmd, "VERSION=v0.9.4.1\n")
		assert.Contains(t, cmd, "FORCE=false\n")
	})

	t.Run("already installed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 120*time.Second, domain.ExecResult{Stdout: "ALREADY_INSTALLED\n"}, nil)

		res := f.app.InstallZapret(context.Background(), domain.InstallRequest{Version: "v1.0", Force: true})
		assert.Equal(t, domain.Success("zapret2 is already installed at /opt/zapret2. Use force=true to reinstall."), res)
		assert.Contains(t, cmd, "FORCE=true\n")
	})

	t.Run("failure saves transcript", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.expect(nil, 120*time.Second, domain.ExecResult{}, exitErr("cloning\n", "fatal: unable to access"))
		f.store.EXPECT().
			Save(domain.LogService, "cloning\nfatal: unable to access",
				map[string]string{"action": "install", "version": "v0.9.4.1", "error": "true"}).
			Return("ts", nil)

		res := f.app.InstallZapret(context.Background(), domain.InstallRequest{})
		assert.Equal(t, domain.Failure("Error installing zapret2: cloning\nfatal: unable to access"), res)
	})

	t.Run("transport failure without output", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.expect(nil, 120*time.Second, domain.ExecResult{},
			&domain.ExecError{Kind: domain.ExecTransport, Err: errors.New("connection refused")})

		res := f.app.InstallZapret(context.Background(), domain.InstallRequest{})
		assert.Equal(t, domain.Failure("Error installing zapret2: transport failure: connection refused"), res)
	})
}

func TestApp_VerifyBypass(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 15*time.Second, domain.ExecResult{Stdout: `{"bypassConfirmed": false}`}, nil)

		res := f.app.VerifyBypass(context.Background(), domain.VerifyRequest{})
		assert.Equal(t, domain.Success(`{"bypassConfirmed": false}`), res)
		assert.Contains(t, cmd, "DOMAIN=example.com\n")
		assert.Contains(t, cmd, "TIMEOUT=10\n")
	})

	t.Run("custom timeout", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 8*time.Second, domain.ExecResult{Stdout: "{}"}, nil)

		f.app.VerifyBypass(context.Background(), domain.VerifyRequest{Domain: "youtube.com", Timeout: 2500 * time.Millisecond})
		assert.Contains(t, cmd, "TIMEOUT=3\n")
	})
}

func TestApp_ConfigureDNS(t *testing.T) {
	t.Parallel()

	t.Run("resolv.conf", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 15*time.Second, domain.ExecResult{Stdout: "DNS configured via resolv.conf: 1.1.1.1\n"}, nil)
		f.store.EXPECT().
			Save(domain.LogConfig, "DNS configured via resolv.conf: 1.1.1.1",
				map[string]string{"action": "configureDns", "resolver": "1.1.1.1", "method": "resolv.conf"}).
			Return("ts", nil)

		res := f.app.ConfigureDNS(context.Background(), domain.DNSRequest{Resolver: "1.1.1.1", Method: domain.DNSResolvConf})
		assert.False(t, res.IsError)
		assert.Contains(t, cmd, "DNS_IP=1.1.1.1\n")
		assert.Contains(t, cmd, "/etc/resolv.conf.bak")
	})

	t.Run("systemd-resolved custom", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		var cmd string
		f.expect(&cmd, 15*time.Second, domain.ExecResult{Stdout: "ok"}, nil)
		f.store.EXPECT().
			Save(domain.LogConfig, "ok",
				map[string]string{"action": "configureDns", "resolver": "77.88.8.8", "method": "systemd-resolved"}).
			Return("ts", nil)

		res := f.app.ConfigureDNS(context.Background(), domain.DNSRequest{
			Resolver:       domain.CustomResolver,
			CustomResolver: "77.88.8.8",
			Method:         domain.DNSSystemdResolved,
		})
		assert.False(t, res.IsError)
		assert.Contains(t, cmd, "systemctl restart systemd-resolved")
	})

	t.Run("failure prefers stderr then stdout", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.expect(nil, 15*time.Second, domain.ExecResult{}, exitErr("ERROR: systemd-resolved is not active\n", ""))

		res := f.app.ConfigureDNS(context.Background(), domain.DNSRequest{Resolver: "8.8.8.8", Method: domain.DNSSystemdResolved})
		assert.Equal(t, domain.Failure("Error: ERROR: systemd-resolved is not active\n"), res)
	})

	invalid := []struct {
		name string
		req  domain.DNSRequest
		want string
	}{
		{
			name: "custom without address",
			req:  domain.DNSRequest{Resolver: domain.CustomResolver, Method: domain.DNSResolvConf},
			want: "Error: customResolver is required when resolver='custom'",
		},
		{
			name: "not an address",
			req:  domain.DNSRequest{Resolver: domain.CustomResolver, CustomResolver: "1.1.1.1; reboot", Method: domain.DNSResolvConf},
			want: "Error: invalid IP address: 1.1.1.1; reboot",
		},
		{
			name: "octet out of range",
			req:  domain.DNSRequest{Resolver: domain.CustomResolver, CustomResolver: "300.1.1.1", Method: domain.DNSResolvConf},
			want: "Error: invalid IP address: 300.1.1.1",
		},
		{
			name: "unknown resolver",
			req:  domain.DNSRequest{Resolver: "4.4.4.4", Method: domain.DNSResolvConf},
			want: "Error: resolver must be one of 1.1.1.1, 8.8.8.8, 9.9.9.9, custom",
		},
		{
			name: "unknown method",
			req:  domain.DNSRequest{Resolver: "1.1.1.1", Method: "netplan"},
			want: "Error: method must be resolv.conf or systemd-resolved",
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			assert.Equal(t, domain.Failure(tt.want), f.app.ConfigureDNS(context.Background(), tt.req))
		})
	}
}

func TestApp_CreateSystemdService(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var cmd string
	f.expect(&cmd, 30*time.Second, domain.ExecResult{Stdout: "Service not enabled (enable=false)\nUNIT_CREATED\n"}, nil)
	f.store.EXPECT().
		Save(domain.LogService, "Service not enabled (enable=false)\nUNIT_CREATED",
			map[string]string{"action": "createSystemdService", "enable": "false"}).
		Return("ts", nil)

	res := f.app.CreateSystemdService(context.Background(), false)
	assert.False(t, res.IsError)
	assert.Contains(t, cmd, "ENABLE=false\n")
	assert.Contains(t, cmd, "daemon-reload")
}

func TestApp_RemoveZapret(t *testing.T) {
	t.Parallel()

	t.Run("not installed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.expect(nil, 60*time.Second, domain.ExecResult{Stdout: "NOT_INSTALLED: /opt/zapret2 not found, nothing to remove.\n"}, nil)

		res := f.app.RemoveZapret(context.Background(), false)
		assert.Equal(t, domain.Success("NOT_INSTALLED: /opt/zapret2 not found, nothing to remove."), res)
	})

	t.Run("removes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.expect(nil, 60*time.Second, domain.ExecResult{Stdout: "REMOVE_OK: /opt/zapret2 deleted\n"}, nil)
		f.store.EXPECT().
			Save(domain.LogService, "REMOVE_OK: /opt/zapret2 deleted", map[string]string{"action": "remove", "force": "true"}).
			Return("ts", nil)

		res := f.app.RemoveZapret(context.Background(), true)
		assert.Equal(t, domain.Success("REMOVE_OK: /opt/zapret2 deleted"), res)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.expect(nil, 60*time.Second, domain.ExecResult{}, exitErr("=== zapret2 removal started ===\n", "rm: permission denied"))
		f.store.EXPECT().
			Save(domain.LogService, "=== zapret2 removal started ===\nrm: permission denied",
				map[string]string{"action": "remove", "error": "true"}).
			Return("ts", nil)

		res := f.app.RemoveZapret(context.Background(), false)
		assert.True(t, res.IsError)
		assert.True(t, strings.HasPrefix(res.Text, "Error removing zapret2: === zapret2 removal started ==="))
	})
}

func TestApp_ReadLog(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.EXPECT().Read(domain.LogService, "2025-03-01T10-20-30").Return("body", true, nil)
	f.store.EXPECT().Read(domain.LogService, "2025-03-01T10-20-31").Return("", false, nil)

	content, err := f.app.ReadLog(domain.LogService, "2025-03-01T10-20-30")
	require.NoError(t, err)
	assert.Equal(t, "body", content)

	_, err = f.app.ReadLog(domain.LogService, "2025-03-01T10-20-31")
	require.ErrorIs(t, err, domain.ErrLogNotFound)
	assert.ErrorContains(t, err, "Log not found: service/2025-03-01T10-20-31")
}

func TestApp_ListLogs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	entries := []domain.LogEntry{{Category: domain.LogConfig, Timestamp: "t"}}
	f.store.EXPECT().List(domain.LogConfig).Return(entries, nil)

	got, err := f.app.ListLogs(domain.LogConfig)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
