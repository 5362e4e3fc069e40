package security

import (
	"runtime"
	"sync"
)

// SecureBytes holds key material and zeroes it on Destroy.
type SecureBytes struct {
	data []byte
	mu   sync.Mutex
}

// NewSecureBytes copies data into a new SecureBytes. The caller keeps
// ownership of data and may wipe it independently.
func NewSecureBytes(data []byte) *SecureBytes {
	s := &SecureBytes{data: make([]byte, len(data))}
	copy(s.data, data)
	runtime.SetFinalizer(s, (*SecureBytes).destroy)
	return s
}

// Bytes returns the protected slice, or nil after Destroy. The slice must
// not be retained past the owning object's lifetime.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Len reports the key length without exposing the bytes.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeroes the memory. It is safe to call more than once.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroy()
	runtime.SetFinalizer(s, nil)
}

func (s *SecureBytes) destroy() {
	if s.data != nil {
		ZeroBytes(s.data)
		s.data = nil
	}
}

// ZeroBytes overwrites data with zeros.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	clear(data)
	runtime.KeepAlive(data)
}
