package cfl_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ecalib/internal/cfl"
)

func sampleArray(t *testing.T, dims ...int) cfl.Array {
	t.Helper()
	arr, err := cfl.New(dims...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := range arr.Data {
		arr.Data[i] = complex(float32(i)*0.5, -float32(i)/3)
	}
	return arr
}

func TestRoundTripIsBitIdentical(t *testing.T) {
	base := filepath.Join(t.TempDir(), "kspace")
	arr := sampleArray(t, 4, 3, 2, 8)
	arr.Data[0] = complex(float32(math.NaN()), float32(math.Inf(-1)))
	arr.Data[1] = complex(float32(math.Copysign(0, -1)), math.SmallestNonzeroFloat32)

	if err := cfl.Write(base, arr); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := cfl.Read(base)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !arr.Equal(got) {
		t.Fatal("round trip changed the array")
	}
	if diff := cmp.Diff([]int{4, 3, 2, 8}, got.Dims); diff != "" {
		t.Fatalf("dims mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteProducesBARTLayout(t *testing.T) {
	base := filepath.Join(t.TempDir(), "arr")
	arr := cfl.Array{Dims: []int{2, 1}, Data: []complex64{complex(1, 2), complex(-1, 0.5)}}
	if err := cfl.Write(base, arr); err != nil {
		t.Fatalf("Write: %v", err)
	}

	header, err := os.ReadFile(cfl.HeaderPath(base))
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	want := "# Dimensions\n2 1 1 1 1 1 1 1 1 1 1 1 1 1 1 1 \n"
	if string(header) != want {
		t.Fatalf("unexpected header %q", header)
	}

	raw, err := os.ReadFile(cfl.DataPath(base))
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	if len(raw) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(raw))
	}
	// 1.0f little-endian
	if diff := cmp.Diff([]byte{0x00, 0x00, 0x80, 0x3f}, raw[0:4]); diff != "" {
		t.Fatalf("unexpected first sample bytes (-want +got):\n%s", diff)
	}
}

func TestReadHeaderSkipsOtherSections(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	header := "# Command\nbart ecalib -t 0.001 in out\n# Dimensions\n6 6 1 8 2 1 1 1 1 1 1 1 1 1 1 1\n# Files\n>out\n"
	if err := os.WriteFile(cfl.HeaderPath(base), []byte(header), 0o644); err != nil {
		t.Fatalf("write header: %v", err)
	}
	dims, err := cfl.ReadHeader(base)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if diff := cmp.Diff([]int{6, 6, 1, 8, 2}, dims); diff != "" {
		t.Fatalf("dims mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRejectsMalformedContainers(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   int
	}{
		{"no dimensions", "# Command\nbart\n", 8},
		{"bad number", "# Dimensions\n2 x\n", 16},
		{"zero size", "# Dimensions\n2 0\n", 0},
		{"too many dims", "# Dimensions\n" + strings.Repeat("1 ", 17) + "\n", 8},
		{"truncated data", "# Dimensions\n4\n", 24},
		{"oversized data", "# Dimensions\n1\n", 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "bad")
			if err := os.WriteFile(cfl.HeaderPath(base), []byte(tt.header), 0o644); err != nil {
				t.Fatalf("write header: %v", err)
			}
			if err := os.WriteFile(cfl.DataPath(base), make([]byte, tt.data), 0o644); err != nil {
				t.Fatalf("write data: %v", err)
			}
			_, err := cfl.Read(base)
			if !errors.Is(err, cfl.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestReadMissingContainer(t *testing.T) {
	_, err := cfl.Read(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteRejectsInconsistentArray(t *testing.T) {
	base := filepath.Join(t.TempDir(), "bad")
	err := cfl.Write(base, cfl.Array{Dims: []int{3}, Data: make([]complex64, 2)})
	if err == nil {
		t.Fatal("expected error for sample count mismatch")
	}
	if cfl.Exists(base) {
		t.Fatal("expected no container after failed write")
	}
}

func TestRemoveDeletesBothFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "arr")
	if err := cfl.Write(base, sampleArray(t, 2)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !cfl.Exists(base) {
		t.Fatal("expected container to exist")
	}
	if err := cfl.Remove(base); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if cfl.Exists(base) {
		t.Fatal("expected container to be removed")
	}
	if err := cfl.Remove(base); err != nil {
		t.Fatalf("second Remove should be a no-op: %v", err)
	}
}
