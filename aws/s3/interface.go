//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package s3

import (
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Reader is the read-only view of a bucket used to fetch booking extracts.
type Reader interface {
	Lister
	Getter
}

type Lister interface {
	List(key string) (keys []string, err error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(key string) (data []byte, err error)
}
