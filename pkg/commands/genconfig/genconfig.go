package genconfig

import (
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/filesystem"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// GenConfigOptions holds options for the genconfig command
type GenConfigOptions struct {
	Paths  *paths.Paths
	Config *config.Config
	// Write writes the workspace .snipsync.toml instead of returning the
	// content only. An existing file is never overwritten.
	Write      bool
	FileSystem types.FS
}

// GenConfig outputs or writes the configuration with every value commented
// out.
func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	content, err := config.GenerateConfigContent(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to generate configuration")
	}

	result := &types.GenConfigResult{
		ConfigContent: content,
		FilesWritten:  []string{},
	}
	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}
	if opts.Paths == nil {
		return nil, errors.New(errors.ErrInvalidInput, "workspace paths are required to write the configuration")
	}

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	target := opts.Paths.ConfigPath()
	if _, err := fsys.Stat(target); err == nil {
		logger.Warn().Str("path", target).Msg("Config file already exists, skipping")
		return result, nil
	}
	if err := fsys.WriteFile(target, []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write config to %s", target)
	}

	logger.Info().Str("path", target).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, target)
	return result, nil
}
