package app

import (
	"os/exec"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemdUnit(t *testing.T) {
	t.Parallel()

	g := goldie.New(t)
	g.Assert(t, "zapret2.service", []byte(SystemdUnit))
}

func TestWithVars_QuotesValues(t *testing.T) {
	t.Parallel()

	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	values := []string{
		"plain",
		"",
		"--dpi-desync=fake,split2 --dpi-desync-fooling=md5sig",
		`"; touch /tmp/pwned; echo "`,
		"$(id -u) `id -u` ${HOME}",
		"it's \\ back\nslash",
	}

	for _, v := range values {
		script := withVars(`printf '%s' "$VALUE"`, [2]string{"VALUE", v})
		out, err := exec.Command(bash, "-c", script).Output()
		require.NoError(t, err, script)
		assert.Equal(t, v, string(out))
	}
}

func TestServiceScript(t *testing.T) {
	t.Parallel()

	script := serviceScript("restart")
	assert.Contains(t, script, `[ "$(id -u)" != "0" ] && SUDO="sudo"`)
	assert.Contains(t, script, "$SUDO /opt/zapret2/init.d/sysv/zapret2 restart\n")
}
