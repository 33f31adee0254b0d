package driver

import (
	"fmt"
	"os"
	"strings"
)

// thirdPartyMarker appears in the names of license files that driver
// managers sometimes report instead of the executable
const thirdPartyMarker = "THIRD_PARTY"

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func splitDir(path, goos string) (string, bool) {
	seps := "/"
	if goos == "windows" {
		seps = `\/`
	}
	i := strings.LastIndexAny(path, seps)
	if i <= 0 {
		return "", false
	}
	return path[:i], true
}

func joinPath(dir, name, goos string) string {
	sep := "/"
	if goos == "windows" && !strings.Contains(dir, "/") {
		sep = `\`
	}
	return dir + sep + name
}

// CorrectDriverPath fixes a driver manager result on Windows. A path that
// does not end in .exe, or that names a metadata file, is replaced by exeName
// found in the same directory or else its parent. Other platforms get path
// back unchanged.
func CorrectDriverPath(path, exeName, goos string, exists func(string) bool) (string, error) {
	if goos != "windows" {
		return path, nil
	}
	if strings.HasSuffix(strings.ToLower(path), ".exe") && !strings.Contains(path, thirdPartyMarker) {
		return path, nil
	}

	dir, ok := splitDir(path, goos)
	if !ok {
		return "", fmt.Errorf("cannot derive a directory from driver path %q", path)
	}
	if candidate := joinPath(dir, exeName, goos); exists(candidate) {
		return candidate, nil
	}
	if parent, ok := splitDir(dir, goos); ok {
		if candidate := joinPath(parent, exeName, goos); exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("driver manager returned %q and no %s was found next to it or in its parent directory", path, exeName)
}
