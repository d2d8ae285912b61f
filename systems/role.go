// Package systems contains the ECS systems of the physics core.
package systems

import "fmt"

// Role is the process-wide simulation role. Only authoritative roles run
// collision detection and response; replicas receive state over the network.
type Role uint8

const (
	// RoleStandalone simulates locally with no replication.
	RoleStandalone Role = iota
	// RoleServer simulates authoritatively and replicates to clients.
	RoleServer
	// RoleClient is a passive replica.
	RoleClient
)

// Authoritative reports whether this role owns the simulation.
func (r Role) Authoritative() bool {
	return r != RoleClient
}

// Networked reports whether replication intents must be emitted.
func (r Role) Networked() bool {
	return r != RoleStandalone
}

func (r Role) String() string {
	switch r {
	case RoleStandalone:
		return "standalone"
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole converts a config string into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "", "standalone":
		return RoleStandalone, nil
	case "server":
		return RoleServer, nil
	case "client":
		return RoleClient, nil
	}
	return RoleStandalone, fmt.Errorf("unknown role %q", s)
}
