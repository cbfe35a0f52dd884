package render

import "github.com/rezonia/invoice-composer/internal/model"

// SetBeforeBuild installs a hook run before each build and returns a func
// restoring the previous one.
func SetBeforeBuild(hook func(model.Snapshot)) func() {
	prev := beforeBuild
	beforeBuild = hook
	return func() { beforeBuild = prev }
}
