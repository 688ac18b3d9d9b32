package testsupport

import (
	"fmt"
	"path/filepath"
)

// Fixture container names read by ECalibStub.
const (
	FixtureSensitivities = "sens"
	FixtureEVMaps        = "maps"
	FixtureImgCov        = "imgcov"
	CapturedInput        = "captured-input"
)

// ECalibStub returns a bart script body for `bart ecalib`. It writes its
// arguments, one per line, to argsFile, copies the input container to
// fixtures/captured-input and fills the output paths from the fixture
// containers in fixtureDir. `bart version` prints a version string.
func ECalibStub(argsFile, fixtureDir string) string {
	fix := func(name string) string { return shellQuote(filepath.Join(fixtureDir, name)) }
	return fmt.Sprintf(`printf '%%s\n' "$@" > %s
if [ "$1" = "version" ]; then
  echo "v0.9.00"
  exit 0
fi
first=0
for a in "$@"; do
  if [ "$a" = "-1" ]; then first=1; fi
done
n=$#
if [ "$first" = 1 ]; then
  eval src=\"\${$((n-1))}\"
  eval out1=\"\${$n}\"
  cp %s.hdr "$out1.hdr" && cp %s.cfl "$out1.cfl" || exit 9
else
  eval src=\"\${$((n-2))}\"
  eval out1=\"\${$((n-1))}\"
  eval out2=\"\${$n}\"
  cp %s.hdr "$out1.hdr" && cp %s.cfl "$out1.cfl" || exit 9
  cp %s.hdr "$out2.hdr" && cp %s.cfl "$out2.cfl" || exit 9
fi
cp "$src.hdr" %s.hdr && cp "$src.cfl" %s.cfl
echo "Done."`,
		shellQuote(argsFile),
		fix(FixtureImgCov), fix(FixtureImgCov),
		fix(FixtureSensitivities), fix(FixtureSensitivities),
		fix(FixtureEVMaps), fix(FixtureEVMaps),
		fix(CapturedInput), fix(CapturedInput),
	)
}

// FailingStub returns a bart script body that prints msg to stderr and exits
// with code.
func FailingStub(msg string, code int) string {
	return fmt.Sprintf("echo %s >&2\nexit %d", shellQuote(msg), code)
}

func shellQuote(s string) string {
	return "'" + s + "'"
}
