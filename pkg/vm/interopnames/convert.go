package interopnames

import (
	"errors"
	"sync"

	"github.com/n3lib/core/internal/xxhash32"
)

var (
	errNotFound = errors.New("interop name not found")

	fromIDOnce sync.Once
	fromID     map[uint32]string
)

// ToID returns the 4-byte identifier the SYSCALL instruction uses for
// the named service: the xxHash32 of its name.
func ToID(name []byte) uint32 {
	return xxhash32.Sum(name)
}

// FromID looks the service name up by its SYSCALL identifier. The
// reverse table is built once on first use; the set of services is
// closed, so a miss means the ID never named a service at all.
func FromID(id uint32) (string, error) {
	fromIDOnce.Do(func() {
		fromID = make(map[uint32]string, len(Names))
		for i := range Names {
			fromID[ToID([]byte(Names[i]))] = Names[i]
		}
	})
	if name, ok := fromID[id]; ok {
		return name, nil
	}
	return "", errNotFound
}
