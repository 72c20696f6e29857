package app

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Paths on the target host.
const (
	InstallDir  = "/opt/zapret2"
	ConfigPath  = InstallDir + "/config"
	InitScript  = InstallDir + "/init.d/sysv/zapret2"
	sudoPreface = `SUDO=""
[ "$(id -u)" != "0" ] && SUDO="sudo"
`
)

// SystemdUnit is the unit file installed by CreateSystemdService.
const SystemdUnit = `[Unit]
Description=zapret2 network packet processing service
After=network-online.target
Wants=network-online.target

[Service]
Type=forking
ExecStart=/opt/zapret2/init.d/sysv/zapret2 start
ExecStop=/opt/zapret2/init.d/sysv/zapret2 stop
ExecReload=/opt/zapret2/init.d/sysv/zapret2 restart
RemainAfterExit=yes
Restart=no

[Install]
WantedBy=multi-user.target
`

// withVars prefixes script with shell assignments. Values are quoted, so
// nothing a caller passes is ever parsed as shell syntax.
func withVars(script string, vars ...[2]string) string {
	var b strings.Builder
	for _, v := range vars {
		b.WriteString(v[0])
		b.WriteByte('=')
		b.WriteString(shellquote.Join(v[1]))
		b.WriteByte('\n')
	}
	b.WriteString(script)
	return b.String()
}

func serviceScript(action string) string {
	return sudoPreface + `$SUDO ` + InitScript + ` ` + action + "\n"
}

const statusScript = `PID=$(pgrep -x nfqws2 2>/dev/null || echo "")
RUNNING=false
if [ -n "$PID" ]; then RUNNING=true; fi

FW_RULES=0
FWTYPE=$(grep -E '^FWTYPE=' /opt/zapret2/config 2>/dev/null | cut -d= -f2 || echo "")
if [ "$FWTYPE" = "nftables" ] && command -v nft >/dev/null 2>&1; then
  FW_RULES=$(nft list ruleset 2>/dev/null | grep -c zapret 2>/dev/null || echo 0)
elif command -v iptables >/dev/null 2>&1; then
  FW_RULES=$(iptables -t mangle -L -n 2>/dev/null | grep -c NFQUEUE 2>/dev/null || echo 0)
fi

ENABLED=$(grep -E '^NFQWS2_ENABLE=' /opt/zapret2/config 2>/dev/null | cut -d= -f2 || echo "unknown")

echo "{\"running\": $RUNNING, \"pid\": \"$PID\", \"firewallRulesCount\": $FW_RULES, \"fwtype\": \"$FWTYPE\", \"nfqws2Enabled\": \"$ENABLED\"}"
`

const readConfigScript = "cat " + ConfigPath

const readConfigKeyScript = `grep -E "^${KEY}=" /opt/zapret2/config || echo "Key '${KEY}' not found"
`

const updateConfigScript = `set -e
` + sudoPreface + `export VALUE
if grep -qE "^${KEY}=" /opt/zapret2/config; then
  awk -v key="$KEY" 'BEGIN{val=ENVIRON["VALUE"]} $0 ~ "^" key "=" {print key "=\"" val "\""; next} {print}' /opt/zapret2/config | $SUDO tee /opt/zapret2/config.tmp > /dev/null
  $SUDO mv /opt/zapret2/config.tmp /opt/zapret2/config
  echo "Updated $KEY"
else
  printf '%s="%s"\n' "$KEY" "$VALUE" | $SUDO tee -a /opt/zapret2/config > /dev/null
  echo "Added $KEY"
fi
grep -E "^${KEY}=" /opt/zapret2/config
`

// blockcheck2.sh reads test number, domain and ip version from stdin.
const blockcheckScript = sudoPreface + `
if [ -f /etc/systemd/system/zapret2.service ]; then
  $SUDO systemctl stop zapret2 2>/dev/null || true
else
  $SUDO /opt/zapret2/init.d/sysv/zapret2 stop 2>/dev/null || true
fi

printf '%s\n' '1' "$DOMAIN" "$IP_VERSION" | setsid sh -c "$SUDO /opt/zapret2/blockcheck2.sh 2>&1" 2>&1
BC_EXIT=$?

$SUDO pkill -f 'nfqws2.*--dpi-desync' 2>/dev/null || true

if command -v iptables >/dev/null 2>&1; then
  $SUDO iptables -t mangle -F 2>/dev/null || true
fi
if command -v ip6tables >/dev/null 2>&1; then
  $SUDO ip6tables -t mangle -F 2>/dev/null || true
fi

exit $BC_EXIT
`

const osReleaseProbe = `OS_ID="unknown"
OS_VERSION=""
OS_PRETTY=""
if [ -f /etc/os-release ]; then
  OS_ID=$(. /etc/os-release && echo "${ID:-unknown}")
  OS_VERSION=$(. /etc/os-release && echo "${VERSION_ID:-}")
  OS_PRETTY=$(. /etc/os-release && echo "${PRETTY_NAME:-}")
fi

INIT_SYSTEM="unknown"
if command -v systemctl >/dev/null 2>&1 && systemctl --version >/dev/null 2>&1; then
  INIT_SYSTEM="systemd"
elif [ -d /etc/rc.d ] || [ -f /etc/init.d/boot ]; then
  INIT_SYSTEM="procd"
else
  INIT_SYSTEM="sysv"
fi

NFQUEUE_MODULE="false"
if modinfo xt_NFQUEUE >/dev/null 2>&1 || modinfo nfnetlink_queue >/dev/null 2>&1; then
  NFQUEUE_MODULE="true"
fi

WAN_IFACE=$(ip route get 8.8.8.8 2>/dev/null | awk '/dev/{for(i=1;i<=NF;i++){if($i=="dev"){print $(i+1);exit}}}')
WAN_IFACE=${WAN_IFACE:-""}

DNS_RESOLVERS=""
if [ -f /etc/resolv.conf ]; then
  DNS_RESOLVERS=$(awk '/^nameserver/{printf "%s,", $2}' /etc/resolv.conf | sed 's/,$//')
fi

IN_CONTAINER="false"
if [ -f /.dockerenv ] || grep -q 'docker\|lxc\|containerd' /proc/1/cgroup 2>/dev/null; then
  IN_CONTAINER="true"
fi
`

const prerequisitesScript = `check_cmd() {
  if command -v "$1" >/dev/null 2>&1; then echo "true"; else echo "false"; fi
}

ARCH=$(uname -m)
HAS_NFT=$(check_cmd nft)
HAS_IPTABLES=$(check_cmd iptables)
HAS_IPSET=$(check_cmd ipset)
HAS_CURL=$(check_cmd curl)
HAS_GREP=$(check_cmd grep)
HAS_SED=$(check_cmd sed)
HAS_AWK=$(check_cmd awk)
HAS_GIT=$(check_cmd git)
HAS_BASE64=$(check_cmd base64)

ZAPRET_DIR="false"
if [ -d "/opt/zapret2" ]; then ZAPRET_DIR="true"; fi

NFQWS_BIN="false"
if [ -x "/opt/zapret2/nfq2/nfqws2" ]; then NFQWS_BIN="true"; fi

NETWORK="false"
if curl -sI --max-time 5 https://github.com >/dev/null 2>&1; then NETWORK="true"; fi

` + osReleaseProbe + `
cat <<EOJSON
{
  "arch": "$ARCH",
  "os": {
    "id": "$OS_ID",
    "version": "$OS_VERSION",
    "pretty": "$OS_PRETTY"
  },
  "initSystem": "$INIT_SYSTEM",
  "tools": {
    "nft": $HAS_NFT,
    "iptables": $HAS_IPTABLES,
    "ipset": $HAS_IPSET,
    "curl": $HAS_CURL,
    "grep": $HAS_GREP,
    "sed": $HAS_SED,
    "awk": $HAS_AWK,
    "git": $HAS_GIT,
    "base64": $HAS_BASE64
  },
  "zapretDirExists": $ZAPRET_DIR,
  "nfqwsBinaryExists": $NFQWS_BIN,
  "networkConnectivity": $NETWORK,
  "nfqueueModule": $NFQUEUE_MODULE,
  "wanInterface": "$WAN_IFACE",
  "dnsResolvers": "$DNS_RESOLVERS",
  "inContainer": $IN_CONTAINER
}
EOJSON
`

const detectSystemScript = osReleaseProbe + `
ARCH=$(uname -m)

RESOLVED_ACTIVE="false"
if command -v systemctl >/dev/null 2>&1 && systemctl is-active systemd-resolved >/dev/null 2>&1; then
  RESOLVED_ACTIVE="true"
fi

cat <<EOJSON
{
  "os": {
    "id": "$OS_ID",
    "version": "$OS_VERSION",
    "pretty": "$OS_PRETTY"
  },
  "arch": "$ARCH",
  "initSystem": "$INIT_SYSTEM",
  "wanInterface": "$WAN_IFACE",
  "dnsResolvers": "$DNS_RESOLVERS",
  "nfqueueModule": $NFQUEUE_MODULE,
  "inContainer": $IN_CONTAINER,
  "systemdResolved": $RESOLVED_ACTIVE
}
EOJSON
`

// installScript expects VERSION and FORCE.
const installScript = `set -e
` + sudoPreface + `
if [ -d "/opt/zapret2/.git" ] && [ "$FORCE" != "true" ]; then
  echo "ALREADY_INSTALLED"
  exit 0
fi

if [ ! -d "/opt/zapret2/.git" ]; then
  $SUDO rm -rf /opt/zapret2
  $SUDO mkdir -p /opt/zapret2
  $SUDO git clone --depth 1 https://github.com/bol-van/zapret2.git /opt/zapret2
fi

ARCHIVE="zapret2-$VERSION.tar.gz"
cd /tmp
curl -sLO "https://github.com/bol-van/zapret2/releases/download/$VERSION/$ARCHIVE"
tar xzf "$ARCHIVE"
EXTRACT_DIR=$(echo "$ARCHIVE" | sed 's/.tar.gz//')
$SUDO cp -r "$EXTRACT_DIR/binaries/"* /opt/zapret2/binaries/
rm -rf "$EXTRACT_DIR" "$ARCHIVE"

cd /opt/zapret2 && $SUDO sh install_bin.sh

if [ ! -f /opt/zapret2/config ]; then
  WAN_IFACE=$(ip route get 8.8.8.8 2>/dev/null | awk '/dev/{for(i=1;i<=NF;i++){if($i=="dev"){print $(i+1);exit}}}')
  WAN_IFACE=${WAN_IFACE:-}
  if command -v nft >/dev/null 2>&1; then FWTYPE=nftables; else FWTYPE=iptables; fi
  printf '%s\n' \
    "FWTYPE=$FWTYPE" \
    "MODE=nfqws2" \
    "NFQWS2_ENABLE=0" \
    'NFQWS2_OPT="--payload=http_req --lua-desync=fake"' \
    "FLOWOFFLOAD=none" \
    "IFACE_WAN=$WAN_IFACE" \
    "IFACE_LAN=" \
    "DISABLE_IPV6=1" \
    | $SUDO tee /opt/zapret2/config > /dev/null
fi

echo "INSTALL_OK"
echo "Version: $VERSION"
echo "Binary: $(ls -la /opt/zapret2/nfqws2 2>/dev/null || echo 'not found')"
`

// verifyScript expects DOMAIN and TIMEOUT (seconds).
const verifyScript = `DNS_RESOLVED="false"
DNS_IP=""
IP=$(nslookup "$DOMAIN" 2>/dev/null | grep -A1 "Name:" | grep "Address:" | head -1 | awk '{print $2}')
if [ -z "$IP" ]; then
  IP=$(getent hosts "$DOMAIN" 2>/dev/null | awk '{print $1}' | head -1)
fi
if [ -n "$IP" ]; then
  DNS_RESOLVED="true"
  DNS_IP="$IP"
fi

HTTP_CODE="0"
CURL_EXIT="0"
if command -v curl >/dev/null 2>&1; then
  HTTP_CODE=$(curl -sL -o /dev/null -w '%{http_code}' --max-time "$TIMEOUT" "https://$DOMAIN/" 2>/dev/null)
  CURL_EXIT=$?
  if [ -z "$HTTP_CODE" ]; then HTTP_CODE="0"; fi
fi

ZAPRET_RUNNING="false"
if pgrep -x nfqws2 >/dev/null 2>&1; then
  ZAPRET_RUNNING="true"
fi

FW_RULES=0
if command -v nft >/dev/null 2>&1; then
  FW_RULES=$(nft list ruleset 2>/dev/null | grep -c zapret 2>/dev/null || echo 0)
fi
if [ "$FW_RULES" -eq 0 ] && command -v iptables >/dev/null 2>&1; then
  FW_RULES=$(iptables -t mangle -L -n 2>/dev/null | grep -c NFQUEUE 2>/dev/null || echo 0)
fi

BYPASS_CONFIRMED="false"
if [ "$ZAPRET_RUNNING" = "true" ] && [ "$FW_RULES" -gt 0 ] && [ "$HTTP_CODE" != "0" ] && [ "$HTTP_CODE" != "000" ]; then
  BYPASS_CONFIRMED="true"
fi

cat <<EOJSON
{
  "domain": "$DOMAIN",
  "dnsResolved": $DNS_RESOLVED,
  "dnsIp": "$DNS_IP",
  "httpCode": "$HTTP_CODE",
  "curlExit": "$CURL_EXIT",
  "zapretRunning": $ZAPRET_RUNNING,
  "firewallRulesCount": $FW_RULES,
  "bypassConfirmed": $BYPASS_CONFIRMED
}
EOJSON
`

// dnsResolvedScript expects DNS_IP.
const dnsResolvedScript = `set -e
if ! command -v systemctl >/dev/null 2>&1; then
  echo "ERROR: systemctl not found"
  exit 1
fi

if ! systemctl is-active systemd-resolved >/dev/null 2>&1; then
  echo "ERROR: systemd-resolved is not active"
  exit 1
fi

RESOLVED_CONF="/etc/systemd/resolved.conf"
if [ -f "$RESOLVED_CONF" ]; then
  cp "$RESOLVED_CONF" "$RESOLVED_CONF.bak"
fi

if grep -q '^DNS=' "$RESOLVED_CONF" 2>/dev/null; then
  sed -i "s/^DNS=.*/DNS=$DNS_IP/" "$RESOLVED_CONF"
elif grep -q '^#DNS=' "$RESOLVED_CONF" 2>/dev/null; then
  sed -i "s/^#DNS=.*/DNS=$DNS_IP/" "$RESOLVED_CONF"
else
  printf '\n[Resolve]\nDNS=%s\n' "$DNS_IP" >> "$RESOLVED_CONF"
fi

systemctl restart systemd-resolved

VERIFY=$(nslookup example.com 2>&1 | head -5 || true)
echo "DNS configured via systemd-resolved: $DNS_IP"
echo "Verification:"
echo "$VERIFY"
`

// dnsResolvConfScript expects DNS_IP.
const dnsResolvConfScript = `set -e
if [ -f /etc/resolv.conf ]; then
  cp /etc/resolv.conf /etc/resolv.conf.bak
fi

printf 'nameserver %s\n' "$DNS_IP" > /etc/resolv.conf

VERIFY=$(nslookup example.com 2>&1 | head -5 || true)
echo "DNS configured via resolv.conf: $DNS_IP"
echo "Previous config backed up to /etc/resolv.conf.bak"
echo "Verification:"
echo "$VERIFY"
`

// systemdScript expects UNIT and ENABLE.
const systemdScript = `set -e
` + sudoPreface + `
if ! command -v systemctl >/dev/null 2>&1; then
  echo "ERROR: systemctl not found. This tool requires systemd."
  exit 1
fi

if ! systemctl --version >/dev/null 2>&1; then
  echo "ERROR: systemd is not running."
  exit 1
fi

if [ ! -d /opt/zapret2 ]; then
  echo "ERROR: /opt/zapret2 not found. Run installZapret first."
  exit 1
fi

printf '%s' "$UNIT" | $SUDO tee /etc/systemd/system/zapret2.service > /dev/null

$SUDO systemctl daemon-reload

if [ "$ENABLE" = "true" ]; then
  $SUDO systemctl enable zapret2.service
else
  echo "Service not enabled (enable=false)"
fi

echo "UNIT_CREATED"
echo "Path: /etc/systemd/system/zapret2.service"
echo "Enabled: $ENABLE"
systemctl status zapret2.service --no-pager 2>&1 || true
`

const removeScript = `set -e
` + sudoPreface + `
if [ ! -d /opt/zapret2 ]; then
  echo "NOT_INSTALLED: /opt/zapret2 not found, nothing to remove."
  exit 0
fi

echo "=== zapret2 removal started ==="

if [ -f /etc/systemd/system/zapret2.service ] && command -v systemctl >/dev/null 2>&1; then
  echo "--- Stopping via systemd ---"
  $SUDO systemctl stop zapret2 2>/dev/null && echo "systemd: stopped" || echo "systemd: stop failed (ignored)"
fi

if [ -f /opt/zapret2/init.d/sysv/zapret2 ]; then
  echo "--- Stopping via init script ---"
  $SUDO /opt/zapret2/init.d/sysv/zapret2 stop 2>/dev/null && echo "init: stopped" || echo "init: stop failed (ignored)"
fi

if [ -f /etc/systemd/system/zapret2.service ]; then
  echo "--- Removing systemd unit ---"
  $SUDO systemctl disable zapret2 2>/dev/null || true
  $SUDO rm -f /etc/systemd/system/zapret2.service
  $SUDO systemctl daemon-reload 2>/dev/null || true
  echo "systemd unit removed"
fi

if pgrep -x nfqws2 >/dev/null 2>&1; then
  echo "--- Killing remaining nfqws2 processes ---"
  $SUDO pkill -x nfqws2 2>/dev/null || true
  sleep 1
  echo "nfqws2 processes killed"
fi

FWTYPE=""
if [ -f /opt/zapret2/config ]; then
  FWTYPE=$(grep '^FWTYPE=' /opt/zapret2/config | cut -d= -f2 | tr -d '"' | tr -d "'")
fi

if [ "$FWTYPE" = "nftables" ] && command -v nft >/dev/null 2>&1; then
  echo "--- Cleaning nftables zapret rules ---"
  $SUDO nft delete table inet zapret 2>/dev/null || true
  $SUDO nft delete table ip zapret 2>/dev/null || true
  echo "nftables: zapret rules cleaned"
elif [ "$FWTYPE" = "iptables" ] && command -v iptables >/dev/null 2>&1; then
  echo "--- Cleaning iptables zapret rules ---"
  $SUDO iptables -t mangle -F PREROUTING 2>/dev/null || true
  $SUDO iptables -t mangle -F OUTPUT 2>/dev/null || true
  echo "iptables: mangle rules flushed"
fi

echo "--- Removing /opt/zapret2 ---"
$SUDO rm -rf /opt/zapret2
echo "REMOVE_OK: /opt/zapret2 deleted"

echo ""
echo "=== Removal complete ==="
echo "Removed: /opt/zapret2"
echo "nfqws2 running: $(pgrep -x nfqws2 >/dev/null 2>&1 && echo YES || echo NO)"
echo "systemd unit: $([ -f /etc/systemd/system/zapret2.service ] && echo EXISTS || echo removed)"
echo "Note: DNS settings were NOT reverted."
`
