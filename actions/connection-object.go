package actions

import (
	"strings"
	"sync"
)

// ConnectionObject should be constructed with public property ConnectionObject set using format:
// <connection>[.<schema>]
type ConnectionObject struct {
	ConnectionObject string `errorTxt:"<connection>[.<schema>]" mandatory:"yes"`
	connection       string
	schema           string
	done             bool
	mu               sync.Mutex
}

func (c *ConnectionObject) GetConnectionName() string {
	c.splitConnectString()
	return c.connection
}

// GetSchema returns the schema part or "" to use the connection's default.
func (c *ConnectionObject) GetSchema() string {
	c.splitConnectString()
	return c.schema
}

// splitConnectString splits the input string at the first period into connection and schema.
func (c *ConnectionObject) splitConnectString() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	i := strings.Index(c.ConnectionObject, ".")
	if i > 0 {
		c.connection = c.ConnectionObject[:i]
		c.schema = c.ConnectionObject[i+1:]
	} else {
		c.connection = c.ConnectionObject
	}
	if c.ConnectionObject != "" {
		c.done = true
	}
}
