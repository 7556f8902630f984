package config

import (
	"fmt"

	"github.com/relloyd/hotelpipe/helper"
	"github.com/relloyd/hotelpipe/rdbms/shared"
)

// GetConnectionType returns the type of the named connection.
func (c *File) GetConnectionType(connectionName string) (connectionType string, err error) {
	d, err := c.GetConnectionDetails(connectionName)
	if err != nil {
		return "", err
	}
	return d.Type, nil
}

// GetConnectionDetails fetches the named connection. It is an error if the connection is missing or has no type.
func (c *File) GetConnectionDetails(connectionName string) (*shared.ConnectionDetails, error) {
	d := &shared.ConnectionDetails{}
	if err := c.Get(connectionName, d); err != nil {
		return nil, err
	}
	if d.Type == "" {
		return nil, fmt.Errorf("connection %q is not configured: use the 'config connections add' command to create it", connectionName)
	}
	if d.LogicalName == "" {
		d.LogicalName = connectionName
	}
	return d, nil
}

// SetConnectionDetails validates and saves d under its logical name.
func (c *File) SetConnectionDetails(d shared.ConnectionDetails) error {
	if err := helper.ValidateStructIsPopulated(d); err != nil {
		return err
	}
	return c.Set(d.LogicalName, d)
}

// LoadConnection implements actions.ConnectionLoader.
func (c *File) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	d, err := c.GetConnectionDetails(connectionName)
	if err != nil {
		return shared.ConnectionDetails{}, err
	}
	return *d, nil
}
