// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/vcl/gpucore"
)

// stubDevice satisfies gpucore.Device for registry tests; only its name is used.
type stubDevice struct {
	gpucore.Device
	name string
}

func register(t *testing.T, name string, f Factory) {
	t.Helper()
	Register(name, f)
	t.Cleanup(func() { Unregister(name) })
}

func opens(name string) Factory {
	return func() (gpucore.Device, error) { return &stubDevice{name: name}, nil }
}

func fails(err error) Factory {
	return func() (gpucore.Device, error) { return nil, err }
}

func TestRegisterAndAvailable(t *testing.T) {
	register(t, "zeta", opens("zeta"))
	register(t, "alpha", opens("alpha"))

	if !IsRegistered("zeta") || !IsRegistered("alpha") {
		t.Fatal("registered backends not reported by IsRegistered")
	}
	if IsRegistered("missing") {
		t.Error("IsRegistered(missing) = true")
	}

	got := Available()
	if !slices.IsSorted(got) {
		t.Errorf("Available() = %v, want sorted", got)
	}
	if !slices.Contains(got, "alpha") || !slices.Contains(got, "zeta") {
		t.Errorf("Available() = %v, missing registered names", got)
	}
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register("nil", nil)
}

func TestUnregister(t *testing.T) {
	Register("temp", opens("temp"))
	Unregister("temp")
	if IsRegistered("temp") {
		t.Error("backend still registered after Unregister")
	}
}

func TestOpen(t *testing.T) {
	register(t, "one", opens("one"))

	dev, err := Open("one")
	if err != nil {
		t.Fatalf("Open(one) error = %v", err)
	}
	if got := dev.(*stubDevice).name; got != "one" {
		t.Errorf("Open(one) returned device %q", got)
	}

	if _, err := Open("missing"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(missing) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestOpenFactoryError(t *testing.T) {
	errBoom := errors.New("boom")
	register(t, "broken", fails(errBoom))

	if _, err := Open("broken"); !errors.Is(err, errBoom) {
		t.Errorf("Open(broken) error = %v, want wrapped factory error", err)
	}
}

func TestDefaultPriority(t *testing.T) {
	register(t, BackendSoft, opens(BackendSoft))
	register(t, BackendWGPU, opens(BackendWGPU))
	register(t, "aaa", opens("aaa"))

	dev, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if got := dev.(*stubDevice).name; got != BackendWGPU {
		t.Errorf("Default() = %q, want %q", got, BackendWGPU)
	}
}

func TestDefaultSkipsFailingBackend(t *testing.T) {
	register(t, BackendWGPU, fails(errors.New("no adapter")))
	register(t, BackendSoft, opens(BackendSoft))

	dev, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if got := dev.(*stubDevice).name; got != BackendSoft {
		t.Errorf("Default() = %q, want fallback %q", got, BackendSoft)
	}
}

func TestDefaultNoneAvailable(t *testing.T) {
	errNoAdapter := errors.New("no adapter")
	register(t, BackendWGPU, fails(errNoAdapter))

	_, err := Default()
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default() error = %v, want ErrBackendNotAvailable", err)
	}
	if !errors.Is(err, errNoAdapter) {
		t.Errorf("Default() error = %v, want factory error joined", err)
	}
}

func TestMustDefaultPanics(t *testing.T) {
	register(t, BackendWGPU, fails(errors.New("no adapter")))

	defer func() {
		if recover() == nil {
			t.Error("MustDefault() did not panic")
		}
	}()
	MustDefault()
}
