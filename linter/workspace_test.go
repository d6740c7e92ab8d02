package linter

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/txtx/txtx-sub001/manifest"
)

const wsManifest = `name: demo
runbooks:
  - name: deploy
    location: runbooks/deploy
  - name: transfer
    location: runbooks/transfer.tx
  - name: example
    location: examples/example.tx
environments:
  global:
    chain_id: "11155111"
  devnet:
    rpc_api_url: http://localhost:8545
    private_key: ${PRIVATE_KEY}
  production:
    rpc_api_url: https://rpc.example.com
`

const deployMain = `action "send" "evm::send_eth" {
  recipient_address = input.recipient
  signer = signer.deployer
}
output "hash" {
  value = action.send.tx_hash
}
`

const deploySigners = `signer "deployer" "evm::secret_key" {
  secret_key = input.private_key
}
`

const transfer = `action "pay" "evm::send_eth" {
  recipient_address = "0x0000000000000000000000000000000000000000"
  rpc_api_url = input.rpc_api_url
  signer = signer.deployer
}
`

// newWorkspace lays out a workspace under /ws.
func newWorkspace(t *testing.T, extra map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/ws/txtx.yml":                   wsManifest,
		"/ws/runbooks/deploy/main.tx":    deployMain,
		"/ws/runbooks/deploy/signers.tx": deploySigners,
		"/ws/runbooks/deploy/README.md":  "not a runbook",
		"/ws/runbooks/transfer.tx":       transfer,
		"/ws/examples/example.tx":        "action \"broken\" {\n",
	}
	for name, content := range extra {
		files[name] = content
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestFindManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/txtx.yml", []byte("name: demo\n"), 0o644))
	require.NoError(t, fs.MkdirAll("/repo/a/b/c", 0o755))
	require.NoError(t, fs.MkdirAll("/other/.git", 0o755))
	require.NoError(t, fs.MkdirAll("/other/sub", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/txtx.yml", []byte("name: root\n"), 0o644))

	tests := []struct {
		name   string
		dir    string
		want   string
		wantOK bool
	}{
		{"in directory", "/repo", "/repo/txtx.yml", true},
		{"deeply nested", "/repo/a/b/c", "/repo/txtx.yml", true},
		{"stops at git root", "/other/sub", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindManifest(fs, tt.dir)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRunbook_Manifest(t *testing.T) {
	fs := newWorkspace(t, nil)
	m, err := manifest.Load(fs, "/ws/txtx.yml")
	require.NoError(t, err)

	rb, err := ResolveRunbook(fs, m, "/ws", "deploy")
	require.NoError(t, err)
	require.Equal(t, "deploy", rb.Name)
	require.Equal(t, []string{"/ws/runbooks/deploy/main.tx", "/ws/runbooks/deploy/signers.tx"}, rb.Paths())

	rb, err = ResolveRunbook(fs, m, "/ws", "transfer")
	require.NoError(t, err)
	require.Equal(t, []string{"/ws/runbooks/transfer.tx"}, rb.Paths())
	require.Equal(t, transfer, string(rb.Files[0].Content))

	_, err = ResolveRunbook(fs, m, "/ws", "missing")
	require.ErrorIs(t, err, ErrRunbookNotFound)
}

func TestResolveRunbook_DirectPath(t *testing.T) {
	fs := newWorkspace(t, nil)

	rb, err := ResolveRunbook(fs, nil, "/elsewhere", "/ws/runbooks/transfer.tx")
	require.NoError(t, err)
	require.Equal(t, "/ws/runbooks/transfer.tx", rb.Name)
	require.Len(t, rb.Files, 1)
}

func TestResolveRunbook_WithoutManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/loose/runbooks/hello.tx", []byte(`output "x" { value = 1 }`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/loose/local.tx", []byte(`output "y" { value = 2 }`), 0o644))
	require.NoError(t, fs.MkdirAll("/loose/runbooks/empty", 0o755))

	rb, err := ResolveRunbook(fs, nil, "/loose", "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"/loose/runbooks/hello.tx"}, rb.Paths())

	rb, err = ResolveRunbook(fs, nil, "/loose", "local")
	require.NoError(t, err)
	require.Equal(t, []string{"/loose/local.tx"}, rb.Paths())

	_, err = ResolveRunbook(fs, nil, "/loose", "empty")
	require.ErrorIs(t, err, ErrRunbookNotFound)

	_, err = ResolveRunbook(fs, nil, "/loose", "nowhere")
	require.ErrorIs(t, err, ErrRunbookNotFound)
}
