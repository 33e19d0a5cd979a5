package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTargets parses a comma separated target list in the form
// name=host:port, host:port or host. Port and name are optional:
// mx80=192.0.2.1:161, edge2=192.0.2.2, 192.0.2.3
func ParseTargets(s string) []Target {

	items := RemoveEmptyStrings(strings.Split(s, ","))
	var r []Target

	for _, item := range items {

		var name, rest string
		parts := strings.SplitN(item, "=", 2)
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[0])
			rest = strings.TrimSpace(parts[1])
		} else {
			rest = strings.TrimSpace(parts[0])
		}

		host := rest
		var port uint16
		if h, p, found := strings.Cut(rest, ":"); found {
			if n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16); err == nil {
				host = strings.TrimSpace(h)
				port = uint16(n)
			}
		}

		if host == "" {
			continue
		}
		if name == "" {
			name = host
		}

		r = append(r, Target{
			Name: name,
			Host: host,
			Port: port,
		})
	}
	return r
}

// MergeTargetDefaults fills unset target fields from defaults.
func MergeTargetDefaults(t Target, def Target) Target {

	if t.Port == 0 {
		t.Port = def.Port
	}
	if t.Community == "" {
		t.Community = def.Community
	}
	if t.Version == "" {
		t.Version = def.Version
	}
	if t.Name == "" {
		if def.Name != "" {
			t.Name = def.Name
		} else {
			t.Name = t.Host
		}
	}
	t.Labels = MergeLabels(def.Labels, t.Labels)
	return t
}

func (t Target) Address() string {
	port := t.Port
	if port == 0 {
		port = 161
	}
	return fmt.Sprintf("%s:%d", t.Host, port)
}
