package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
)

// Init creates a new gitlet repository at path on the OS filesystem.
func Init(path string) (*Repo, error) {
	return InitWithOptions(path, InitOptions{})
}

// InitWithOptions creates a new gitlet repository at path. It creates the
// .gitlet/ directory structure, writes config.toml and an empty index,
// stores the initial commit and points the default branch and HEAD at it.
//
// HEAD is written last and marks the repository as initialized; an init
// interrupted before that point can simply be re-run.
func InitWithOptions(path string, opts InitOptions) (*Repo, error) {
	o := opts.Options.withDefaults()

	algo := opts.Hash
	if algo == "" {
		algo = object.DefaultAlgorithm
	}
	if _, err := object.ParseAlgorithm(string(algo)); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	branch := opts.DefaultBranch
	if branch == "" {
		branch = defaultBranchName
	}
	if err := validateBranchName(branch); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	gitletDir := filepath.Join(root, DirName)

	if ok, _ := afero.Exists(o.Fs, filepath.Join(gitletDir, headFile)); ok {
		return nil, fmt.Errorf("init %s: %w", root, ErrAlreadyInitialized)
	}

	dirs := []string{
		filepath.Join(gitletDir, "objects"),
		filepath.Join(gitletDir, "refs", "heads"),
		filepath.Join(gitletDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := o.Fs.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Core.Hash = string(algo)
	cfg.Core.DefaultBranch = branch
	cfg.User.Name = opts.UserName
	if err := storeConfig(o.Fs, gitletDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r := newRepo(o, root, gitletDir, cfg, algo)

	if err := r.WriteStaging(NewStaging()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	// The initial commit has a fixed timestamp, so every repository using the
	// same algorithm shares its ID.
	initial := object.NewCommit(initialCommitMessage, 0, "", nil)
	id, err := r.Store.PutCommit(initial)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.updateRef(branchRef(branch), id, "commit (initial): "+initialCommitMessage); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := r.writeHead(symrefPrefix+branchRef(branch), "", id, "init"); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r.opLog("init").WithField("root", root).Debug("repository initialized")
	return r, nil
}

// Open opens the repository on the OS filesystem.
func Open(path string) (*Repo, error) {
	return OpenWithOptions(path, Options{})
}

// OpenWithOptions searches upward from path for a .gitlet/ directory
// containing HEAD and opens the repository.
func OpenWithOptions(path string, opts Options) (*Repo, error) {
	o := opts.withDefaults()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitletDir := filepath.Join(cur, DirName)
		info, err := o.Fs.Stat(filepath.Join(gitletDir, headFile))
		if err == nil && !info.IsDir() {
			cfg, err := loadConfig(o.Fs, gitletDir)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			algo, err := cfg.Algorithm()
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return newRepo(o, cur, gitletDir, cfg, algo), nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open: %w", err)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotARepository)
		}
		cur = parent
	}
}

func newRepo(o Options, root, gitletDir string, cfg *Config, algo object.Algorithm) *Repo {
	return &Repo{
		RootDir:   root,
		GitletDir: gitletDir,
		Store: object.NewStore(o.Fs, gitletDir, algo,
			object.WithCacheSize(cfg.Core.CacheSize),
			object.WithLogger(o.Logger),
		),
		Config: cfg,
		fs:     o.Fs,
		now:    o.Clock,
		log:    o.Logger,
	}
}
