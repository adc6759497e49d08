package transport

import (
	"errors"
	"net"
)

// multicastInterfaces returns every up, multicast-capable interface, or
// just the one named by name if it is non-empty.
func multicastInterfaces(name string) ([]net.Interface, error) {
	candidates, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	const flags = net.FlagUp | net.FlagMulticast

	var matches []net.Interface
	for _, i := range candidates {
		if name != "" && i.Name != name {
			continue
		}
		if i.Flags&flags == flags {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		return nil, errors.New("transport: no matching multicast-capable interfaces available")
	}

	return matches, nil
}
