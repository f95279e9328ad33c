package config

// GenerateDefault produces a commented default config.yaml for fwadm. Every
// value matches the compiled-in defaults, so installing it changes nothing
// until the operator edits it.
func GenerateDefault() string {
	return `# fwadm configuration
# See documentation for all available options.

log_level: info
default_comment: managed by fwadm

firewall:
  # auto, ufw, firewalld or iptables
  backend: auto
  # iptables chain for rule commands
  chain: INPUT

engine:
  max_output_bytes: 1048576

# Extra service catalog entries, merged over the built-ins.
# services:
#   - name: backup-agent
#     ports: ["9101/tcp", "9102/udp"]
`
}
