package cfl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	headerExt    = ".hdr"
	dataExt      = ".cfl"
	sampleBytes  = 8
	dimsSection  = "# Dimensions"
	writeBufSize = 1 << 16
)

// HeaderPath returns the header file for a container base path.
func HeaderPath(base string) string { return base + headerExt }

// DataPath returns the sample file for a container base path.
func DataPath(base string) string { return base + dataExt }

// Write stores arr as a container at base. Both files are removed again if
// either cannot be written completely.
func Write(base string, arr Array) (err error) {
	if err := arr.Validate(); err != nil {
		return fmt.Errorf("write container %s: %w", base, err)
	}
	defer func() {
		if err != nil {
			_ = Remove(base)
		}
	}()
	if err := writeHeader(HeaderPath(base), arr.Dims); err != nil {
		return err
	}
	return writeData(DataPath(base), arr.Data)
}

func writeHeader(path string, dims []int) error {
	var b strings.Builder
	b.WriteString(dimsSection)
	b.WriteByte('\n')
	for i := 0; i < MaxDims; i++ {
		d := 1
		if i < len(dims) {
			d = dims[i]
		}
		b.WriteString(strconv.Itoa(d))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func writeData(path string, data []complex64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	w := bufio.NewWriterSize(file, writeBufSize)
	var sample [sampleBytes]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(sample[0:4], math.Float32bits(real(v)))
		binary.LittleEndian.PutUint32(sample[4:8], math.Float32bits(imag(v)))
		if _, err := w.Write(sample[:]); err != nil {
			_ = file.Close()
			return fmt.Errorf("write data: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush data: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	return nil
}

// ReadHeader parses the dimensions recorded in <base>.hdr. Trailing singleton
// dimensions are dropped.
func ReadHeader(base string) ([]int, error) {
	file, err := os.Open(HeaderPath(base))
	if err != nil {
		return nil, fmt.Errorf("open header: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	inDims := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			inDims = line == dimsSection
			continue
		}
		if !inDims || line == "" {
			continue
		}
		return parseDims(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return nil, fmt.Errorf("%w: %s has no dimensions section", ErrMalformed, HeaderPath(base))
}

func parseDims(line string) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) > MaxDims {
		return nil, fmt.Errorf("%w: %d dimensions exceeds %d", ErrMalformed, len(fields), MaxDims)
	}
	dims := make([]int, 0, len(fields))
	for _, field := range fields {
		d, err := strconv.Atoi(field)
		if err != nil || d < 1 {
			return nil, fmt.Errorf("%w: invalid dimension %q", ErrMalformed, field)
		}
		dims = append(dims, d)
	}
	if _, err := elements(dims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return trimSingletons(dims), nil
}

// Read loads the container at base. The data file must hold exactly the
// number of samples the header declares.
func Read(base string) (Array, error) {
	dims, err := ReadHeader(base)
	if err != nil {
		return Array{}, err
	}
	n, _ := elements(dims)

	raw, err := os.ReadFile(DataPath(base))
	if err != nil {
		return Array{}, fmt.Errorf("read data: %w", err)
	}
	if len(raw) != n*sampleBytes {
		return Array{}, fmt.Errorf("%w: %s holds %d bytes, shape %v needs %d",
			ErrMalformed, DataPath(base), len(raw), dims, n*sampleBytes)
	}

	data := make([]complex64, n)
	for i := range data {
		off := i * sampleBytes
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[off : off+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		data[i] = complex(re, im)
	}
	return Array{Dims: dims, Data: data}, nil
}

// Remove deletes both container files. Missing files are not an error.
func Remove(base string) error {
	var errs []error
	for _, path := range []string{HeaderPath(base), DataPath(base)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Exists reports whether both container files are present.
func Exists(base string) bool {
	for _, path := range []string{HeaderPath(base), DataPath(base)} {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}
