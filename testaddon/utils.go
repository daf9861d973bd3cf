package testaddon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

// TestAddon ...
type TestAddon interface {
	ReplaceUnsupportedFilenameCharacters(s string) string
	CopyResultFile(sourcePth string, targetDir string) error
	SaveBundleMetadata(outputDir string, bundleName string) error
}

type testAddon struct {
	logger      log.Logger
	fileManager fileutil.FileManager
}

// NewTestAddon ...
func NewTestAddon(logger log.Logger, fileManager fileutil.FileManager) TestAddon {
	return &testAddon{
		logger:      logger,
		fileManager: fileManager,
	}
}

// ReplaceUnsupportedFilenameCharacters Replaces characters '/' and ':', which are unsupported in filenames
func (t testAddon) ReplaceUnsupportedFilenameCharacters(s string) string {
	s = strings.Replace(s, "/", "-", -1)
	s = strings.Replace(s, ":", "-", -1)
	return s
}

func (t testAddon) CopyResultFile(sourcePth string, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", targetDir, err)
	}

	source, err := t.fileManager.Open(sourcePth)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			t.logger.Warnf("Failed to close %s: %s", sourcePth, err)
		}
	}()

	content, err := io.ReadAll(source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", sourcePth, err)
	}

	targetPth := filepath.Join(targetDir, filepath.Base(sourcePth))
	if err := t.fileManager.WriteBytes(targetPth, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", targetPth, err)
	}

	t.logger.Donef("Test result copied to: %s", targetPth)

	return nil
}

func (t testAddon) SaveBundleMetadata(outputDir string, bundleName string) error {
	type testBundle struct {
		BundleName string `json:"test-name"`
	}
	bytes, err := json.Marshal(testBundle{
		BundleName: bundleName,
	})
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}
	if err = t.fileManager.WriteBytes(filepath.Join(outputDir, "test-info.json"), bytes); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
