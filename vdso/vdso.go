// Package vdso looks up symbols in the kernel-provided shared object
// mapped into every Linux process (see vdso(7)).
package vdso

import (
	"bufio"
	"bytes"
	"debug/elf"
	"io"
	"runtime"
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

type (
	// Symbol is a versioned dynamic symbol name.
	Symbol struct {
		Name    string
		Version string
	}

	// Image is a parsed vDSO.
	Image struct {
		// Base is where the image is mapped.
		Base uintptr

		bias uintptr
		syms []elf.Symbol
	}
)

var ErrNotFound = errors.New("vdso mapping not found")

// clock_gettime per GOARCH. 32-bit targets use the time64 variant
// matching the 64-bit timespec.
var clockGettime = map[string]Symbol{
	"386":      {"__vdso_clock_gettime64", "LINUX_2.6"},
	"amd64":    {"__vdso_clock_gettime", "LINUX_2.6"},
	"arm":      {"__vdso_clock_gettime64", "LINUX_2.6"},
	"arm64":    {"__kernel_clock_gettime", "LINUX_2.6.39"},
	"loong64":  {"__vdso_clock_gettime", "LINUX_5.10"},
	"mips":     {"__vdso_clock_gettime64", "LINUX_2.6"},
	"mipsle":   {"__vdso_clock_gettime64", "LINUX_2.6"},
	"mips64":   {"__vdso_clock_gettime", "LINUX_2.6"},
	"mips64le": {"__vdso_clock_gettime", "LINUX_2.6"},
	"ppc":      {"__kernel_clock_gettime64", "LINUX_5.11"},
	"ppc64":    {"__kernel_clock_gettime", "LINUX_2.6.15"},
	"ppc64le":  {"__kernel_clock_gettime", "LINUX_2.6.15"},
	"riscv64":  {"__vdso_clock_gettime", "LINUX_4.15"},
	"s390x":    {"__kernel_clock_gettime", "LINUX_2.6.29"},
}

// ClockGettime returns the clock_gettime symbol for the running arch.
// Name is empty if the arch has none.
func ClockGettime() Symbol {
	return ClockGettimeFor(runtime.GOARCH)
}

func ClockGettimeFor(goarch string) Symbol {
	return clockGettime[goarch]
}

// Parse parses an image mapped at base.
func Parse(base uintptr, data []byte) (*Image, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parse elf")
	}

	im := &Image{Base: base}

	found := false

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}

		im.bias = base + uintptr(p.Off) - uintptr(p.Vaddr)
		found = true

		break
	}

	if !found {
		return nil, errors.New("no loadable segment")
	}

	im.syms, err = f.DynamicSymbols()
	if err != nil {
		return nil, errors.Wrap(err, "dynamic symbols")
	}

	return im, nil
}

// Lookup returns the address of a defined function symbol.
// Empty s.Version matches any version, as does a symbol
// for which debug/elf reports no version.
func (im *Image) Lookup(s Symbol) (uintptr, bool) {
	if s.Name == "" {
		return 0, false
	}

	for _, sym := range im.syms {
		if sym.Name != s.Name || !exported(sym) {
			continue
		}

		if s.Version != "" && sym.Version != "" && sym.Version != s.Version {
			continue
		}

		return im.bias + uintptr(sym.Value), true
	}

	return 0, false
}

// Symbols lists exported function symbols as name@version.
func (im *Image) Symbols() []string {
	var r []string

	for _, sym := range im.syms {
		if !exported(sym) {
			continue
		}

		n := sym.Name
		if sym.Version != "" {
			n += "@" + sym.Version
		}

		r = append(r, n)
	}

	return r
}

func exported(sym elf.Symbol) bool {
	if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Section == elf.SHN_UNDEF {
		return false
	}

	b := elf.ST_BIND(sym.Info)

	return b == elf.STB_GLOBAL || b == elf.STB_WEAK
}

// parseMaps finds the [vdso] line in /proc/<pid>/maps format.
func parseMaps(r io.Reader) (start, end uint64, err error) {
	s := bufio.NewScanner(r)

	for s.Scan() {
		line := s.Text()

		if !strings.HasSuffix(line, "[vdso]") {
			continue
		}

		rng, _, _ := strings.Cut(line, " ")

		lo, hi, ok := strings.Cut(rng, "-")
		if !ok {
			return 0, 0, errors.New("bad maps line: %q", line)
		}

		start, err = strconv.ParseUint(lo, 16, 64)
		if err != nil {
			return 0, 0, errors.Wrap(err, "parse start")
		}

		end, err = strconv.ParseUint(hi, 16, 64)
		if err != nil {
			return 0, 0, errors.Wrap(err, "parse end")
		}

		if end <= start {
			return 0, 0, errors.New("bad vdso range: %x-%x", start, end)
		}

		return start, end, nil
	}

	if err = s.Err(); err != nil {
		return 0, 0, errors.Wrap(err, "read maps")
	}

	return 0, 0, ErrNotFound
}

func closeWrap(c io.Closer, errp *error, msg string) {
	e := c.Close()
	if *errp == nil && e != nil {
		*errp = errors.Wrap(e, msg)
	}
}
