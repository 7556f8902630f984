package keymap_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestKeymap(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Keymap Suite")
}
