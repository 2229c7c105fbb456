package sshutils

import (
	"fmt"
	"strings"
)

// TestConnectivity issues an echo canary with a short budget and reports
// whether the round trip completed with exit code 0 and the marker in stdout.
// Every failure path collapses to false; this call never propagates an error.
func (s *Session) TestConnectivity() bool {
	result, err := s.ExecuteCommand(fmt.Sprintf("echo %q", connectivityMarker), ConnectivityTimeout)
	if err != nil {
		return false
	}
	return result.ExitCode == 0 && strings.Contains(result.Stdout, connectivityMarker)
}

// FileExists probes for a regular file at path. Any nonzero or sentinel exit
// code uniformly reads as "does not exist"; a transient probe failure yields a
// false negative, which is acceptable here.
func (s *Session) FileExists(path string) bool {
	result, err := s.ExecuteCommand(fmt.Sprintf("test -f %s", path), DefaultCommandTimeout)
	if err != nil {
		return false
	}
	return result.ExitCode == 0
}

// The fixed battery of informational probes, in presentation order.
var systemInfoProbes = []struct {
	Key     string
	Command string
}{
	{"hostname", "hostname"},
	{"kernel", "uname -r"},
	{"os", `cat /etc/os-release | grep PRETTY_NAME | cut -d= -f2 | tr -d '"'`},
	{"architecture", "uname -m"},
	{"uptime", "uptime"},
	{"whoami", "whoami"},
	{"id", "id"},
	{"pwd", "pwd"},
}

// SystemInfoKeys returns the probe names in presentation order.
func SystemInfoKeys() []string {
	keys := make([]string, 0, len(systemInfoProbes))
	for _, probe := range systemInfoProbes {
		keys = append(keys, probe.Key)
	}
	return keys
}

// SystemInfo runs the fixed probe battery, one command per probe, substituting
// "Unknown" for any probe that does not exit 0.
func (s *Session) SystemInfo() (map[string]string, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	info := make(map[string]string, len(systemInfoProbes))
	for _, probe := range systemInfoProbes {
		result, err := s.ExecuteCommand(probe.Command, DefaultCommandTimeout)
		if err != nil {
			return nil, err
		}
		if result.ExitCode == 0 {
			info[probe.Key] = strings.TrimSpace(result.Stdout)
		} else {
			info[probe.Key] = "Unknown"
		}
	}
	return info, nil
}
