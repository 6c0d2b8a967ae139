package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

func main() {
	customPath := flag.String("path", "", "Custom install directory")
	uninstall := flag.Bool("uninstall", false, "Remove an installed oomph binary instead of installing")
	flag.Parse()

	if *uninstall {
		uninstallBinary(*customPath)
		return
	}

	repoRoot, err := os.Getwd()
	if err != nil {
		exitWithError("unable to determine working directory", err)
	}

	buildOutput := filepath.Join(repoRoot, binaryName())
	defer os.Remove(buildOutput)

	fmt.Println("🚧 Building oomph CLI...")
	buildCmd := exec.Command("go", "build", "-ldflags", ldflags(repoRoot), "-o", buildOutput, "./cmd/oomph")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	buildCmd.Dir = repoRoot
	if err := buildCmd.Run(); err != nil {
		exitWithError("go build failed", err)
	}

	targetDir := *customPath
	if targetDir == "" {
		targetDir = defaultInstallDir()
	}
	if err := install(buildOutput, targetDir); err != nil {
		exitWithError("install failed (try running with elevated permissions)", err)
	}

	fmt.Println("✅ oomph installed.")
	fmt.Println("Run 'oomph --help' to check it is on your PATH.")
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "oomph.exe"
	}
	return "oomph"
}

// ldflags stamps build metadata into oomph/pkg/version.
func ldflags(repoRoot string) string {
	commit := "unknown"
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = repoRoot
	if out, err := cmd.Output(); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	return fmt.Sprintf("-X oomph/pkg/version.GitCommit=%s -X oomph/pkg/version.BuildDate=%s",
		commit, time.Now().UTC().Format(time.RFC3339))
}

func install(binary, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	destPath := filepath.Join(targetDir, binaryName())
	fmt.Printf("📦 Installing to %s\n", destPath)
	if err := copyFile(binary, destPath); err != nil {
		return err
	}
	if runtime.GOOS != "windows" {
		return os.Chmod(destPath, 0o755)
	}
	return nil
}

func defaultInstallDir() string {
	if runtime.GOOS == "windows" {
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, "Programs", "Oomph")
		}
		return filepath.Join(os.TempDir(), "Oomph")
	}
	return "/usr/local/bin"
}

// uninstallBinary removes oomph from customDir, the PATH and the usual
// install locations.
func uninstallBinary(customDir string) {
	var candidates []string
	if customDir != "" {
		candidates = append(candidates, filepath.Join(customDir, binaryName()))
	}
	if onPath, err := exec.LookPath("oomph"); err == nil {
		candidates = append(candidates, onPath)
	}
	candidates = append(candidates, filepath.Join(defaultInstallDir(), binaryName()))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "go", "bin", binaryName()))
	}

	removed := 0
	seen := map[string]bool{}
	for _, path := range candidates {
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			exitWithError("failed to remove "+path, err)
		}
		fmt.Printf("✓ Removed %s\n", path)
		removed++
	}

	if removed == 0 {
		fmt.Println("No installed oomph binary found.")
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}

func exitWithError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}
