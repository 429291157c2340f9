package main_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const sampleDirectoryName = "sample-directory"

var sampleFiles = []string{
	".hidden.lock",
	"file1.md",
	"file2.txt",
	"sub-dir-lv1/file3.toml",
	"sub-dir-lv1/sub-dir-lv2/.hidden2.txt",
	"sub-dir-lv1/sub-dir-lv2/file4",
	"sub-dir-lv1/sub-dir-lv2/sub-dir-lv3/file5.abc",
}

// #nosec G204
func buildBinary(testSetup *testing.T) string {
	testSetup.Helper()
	binaryName := "treer_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testSetup.TempDir(), binaryName)

	currentDirectory, directoryError := os.Getwd()
	if directoryError != nil {
		testSetup.Fatalf("Failed to get current working directory: %v", directoryError)
	}

	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	buildCommand.Dir = currentDirectory
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testSetup.Fatalf("Failed to build binary in %s: %v\nBuild Output:\n%s", currentDirectory, buildErr, string(outputData))
	}
	return binaryPath
}

func createSampleDirectory(testSetup *testing.T) string {
	testSetup.Helper()
	parentDirectory := testSetup.TempDir()
	sampleRoot := filepath.Join(parentDirectory, sampleDirectoryName)
	if err := os.MkdirAll(filepath.Join(sampleRoot, ".hidden"), 0o755); err != nil {
		testSetup.Fatalf("create .hidden: %v", err)
	}
	for _, relativePath := range sampleFiles {
		filePath := filepath.Join(sampleRoot, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			testSetup.Fatalf("create directory for %s: %v", relativePath, err)
		}
		if err := os.WriteFile(filePath, []byte("sample"), 0o644); err != nil {
			testSetup.Fatalf("write %s: %v", relativePath, err)
		}
	}
	return parentDirectory
}

// #nosec G204
func runBinary(testSetup *testing.T, binaryPath string, workingDirectory string, arguments ...string) (string, string, error) {
	testSetup.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "HOME="+testSetup.TempDir(), "USERPROFILE="+testSetup.TempDir(), "NO_COLOR=1")

	var standardOutputBuffer, standardErrorBuffer bytes.Buffer
	command.Stdout = &standardOutputBuffer
	command.Stderr = &standardErrorBuffer
	runError := command.Run()
	return standardOutputBuffer.String(), standardErrorBuffer.String(), runError
}

func describeRun(arguments []string, standardOutput string, standardError string) string {
	return fmt.Sprintf("--- Command ---\ntreer %s\n--- Standard Output ---\n%s\n--- Standard Error ---\n%s",
		strings.Join(arguments, " "), standardOutput, standardError)
}

func TestTreerBinary(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("builds the binary")
	}
	binaryPath := buildBinary(testSetup)
	workingDirectory := createSampleDirectory(testSetup)

	testCases := []struct {
		name            string
		arguments       []string
		expectedSummary string
		expectedLines   []string
	}{
		{
			name:            "default",
			arguments:       []string{sampleDirectoryName},
			expectedSummary: "3 directories, 5 files",
			expectedLines:   []string{sampleDirectoryName, "├── sub-dir-lv1", "│   │   │   └── file5.abc", "└── file2.txt"},
		},
		{
			name:            "hidden",
			arguments:       []string{"-a", sampleDirectoryName},
			expectedSummary: "4 directories, 7 files",
			expectedLines:   []string{"├── .hidden", "│   │   ├── .hidden2.txt"},
		},
		{
			name:            "pattern",
			arguments:       []string{"-P", "*1*", sampleDirectoryName},
			expectedSummary: "3 directories, 4 files",
			expectedLines:   []string{"└── file1.md"},
		},
		{
			name:            "ascii_combination",
			arguments:       []string{"-a", "-L", "3", "-A", "-I", "*2.txt", "-I", "*3*", sampleDirectoryName},
			expectedSummary: "3 directories, 3 files",
			expectedLines:   []string{"|---.hidden", "|   +---sub-dir-lv2", "|       +---file4", "+---file1.md"},
		},
		{
			name:            "sizes",
			arguments:       []string{"-s", "-L", "1", sampleDirectoryName},
			expectedSummary: "1 directory, 2 files",
			expectedLines:   []string{"├── file1.md (6 B)"},
		},
	}

	for _, testCase := range testCases {
		testSetup.Run(testCase.name, func(t *testing.T) {
			standardOutput, standardError, runError := runBinary(t, binaryPath, workingDirectory, testCase.arguments...)
			details := describeRun(testCase.arguments, standardOutput, standardError)
			if runError != nil {
				t.Fatalf("Command failed unexpectedly: %v\n%s", runError, details)
			}
			if !strings.HasSuffix(standardOutput, "\n"+testCase.expectedSummary+"\n") {
				t.Fatalf("expected summary %q\n%s", testCase.expectedSummary, details)
			}
			for _, expectedLine := range testCase.expectedLines {
				if !strings.Contains(standardOutput, expectedLine+"\n") {
					t.Fatalf("expected line %q\n%s", expectedLine, details)
				}
			}
			if strings.Contains(standardOutput, "\x1b[") {
				t.Fatalf("expected no color when output is not a terminal\n%s", details)
			}
		})
	}
}

func TestTreerBinaryFailures(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("builds the binary")
	}
	binaryPath := buildBinary(testSetup)
	workingDirectory := createSampleDirectory(testSetup)

	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
	}{
		{name: "malformed_pattern", arguments: []string{"-P", "[abc", sampleDirectoryName}, expectedError: "invalid pattern"},
		{name: "missing_root", arguments: []string{"no-such-directory"}, expectedError: "does not exist"},
	}

	for _, testCase := range testCases {
		testSetup.Run(testCase.name, func(t *testing.T) {
			standardOutput, standardError, runError := runBinary(t, binaryPath, workingDirectory, testCase.arguments...)
			details := describeRun(testCase.arguments, standardOutput, standardError)
			exitError, isExitError := runError.(*exec.ExitError)
			if !isExitError || exitError.ExitCode() == 0 {
				t.Fatalf("expected a non-zero exit, got %v\n%s", runError, details)
			}
			if standardOutput != "" {
				t.Fatalf("expected no tree output\n%s", details)
			}
			if !strings.Contains(standardError, testCase.expectedError) {
				t.Fatalf("expected %q on standard error\n%s", testCase.expectedError, details)
			}
		})
	}
}

func TestTreerBinarySkipsUnreadableSubdirectory(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("builds the binary")
	}
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		testSetup.Skip("permission bits are not enforced for this user")
	}
	binaryPath := buildBinary(testSetup)
	workingDirectory := createSampleDirectory(testSetup)
	lockedDirectory := filepath.Join(workingDirectory, sampleDirectoryName, "sub-dir-lv1", "sub-dir-lv2")
	if err := os.Chmod(lockedDirectory, 0o000); err != nil {
		testSetup.Fatalf("chmod: %v", err)
	}
	testSetup.Cleanup(func() {
		_ = os.Chmod(lockedDirectory, 0o755)
	})

	arguments := []string{sampleDirectoryName}
	standardOutput, standardError, runError := runBinary(testSetup, binaryPath, workingDirectory, arguments...)
	details := describeRun(arguments, standardOutput, standardError)
	if runError != nil {
		testSetup.Fatalf("Command failed unexpectedly: %v\n%s", runError, details)
	}
	if !strings.Contains(standardOutput, "│   ├── sub-dir-lv2\n") {
		testSetup.Fatalf("expected the unreadable directory to be listed\n%s", details)
	}
	if !strings.HasSuffix(standardOutput, "\n2 directories, 3 files\n") {
		testSetup.Fatalf("expected the unreadable subtree to be empty\n%s", details)
	}
	if !strings.Contains(standardError, "skipping subdirectory") {
		testSetup.Fatalf("expected a warning on standard error\n%s", details)
	}
}
