package repo

import (
	"time"

	"github.com/odvcencio/gitlet/internal/logging"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DirName is the name of the repository directory inside the working tree.
const DirName = ".gitlet"

// Repo represents an opened gitlet repository.
type Repo struct {
	RootDir   string        // working directory root
	GitletDir string        // .gitlet/ directory
	Store     *object.Store // content-addressed object store
	Config    *Config

	fs  afero.Fs
	now func() time.Time
	log logrus.FieldLogger
}

// Options configures how a repository is accessed. The zero value uses the
// OS filesystem, the wall clock and the package logger.
type Options struct {
	Fs     afero.Fs
	Logger logrus.FieldLogger
	Clock  func() time.Time
}

// InitOptions configures a new repository.
type InitOptions struct {
	Options

	Hash          object.Algorithm // empty selects object.DefaultAlgorithm
	DefaultBranch string           // empty selects "master"
	UserName      string
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Fs returns the filesystem the repository and its working tree live on.
func (r *Repo) Fs() afero.Fs {
	return r.fs
}

func (r *Repo) opLog(op string) logrus.FieldLogger {
	return r.log.WithField(logging.OpFieldKey, op)
}
