package template

import "embed"

// The canonical payload compiled into the binary. The all: prefix keeps
// dotfiles such as the template member's .env in the embed set.
//
//go:embed all:payload
var payloadFS embed.FS

var embedded = mustEmbedded()

// Embedded returns the Store backed by the payload compiled into the
// binary. The store is built once at process start and shared.
func Embedded() Store {
	return embedded
}

func mustEmbedded() Store {
	s, err := newStoreFromFS(payloadFS, "payload")
	if err != nil {
		// The payload ships inside the binary; failing to read it means
		// the build itself is broken.
		panic(err)
	}
	return s
}
