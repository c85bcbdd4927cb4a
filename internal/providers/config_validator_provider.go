package providers

import (
	"errors"
	"portal/internal/errs"
	"portal/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return errors.New(v.Errors.String())
	}
	return c.validateDependencies()
}

// validateDependencies checks settings that are only required once another
// option selects them.
func (c *CnfValidator) validateDependencies() error {
	conf := c.conf
	switch conf.KV.Driver {
	case "file":
		if conf.Persistence.FilePath == "" {
			return errs.NewConfigurationMissingError("persistence.filePath")
		}
		if conf.Persistence.SaveInterval <= 0 {
			return errs.NewConfigurationMissingError("persistence.saveInterval")
		}
	case "redis":
		if conf.Redis.Addr == "" {
			return errs.NewConfigurationMissingError("redis.addr")
		}
	case "firestore":
		if conf.Firestore.ProjectId == "" {
			return errs.NewConfigurationMissingError("firestore.projectId")
		}
	}
	if conf.Portal.GroupsSource == "url" && conf.Portal.GroupsUrl == "" {
		return errs.NewConfigurationMissingError("portal.groupsUrl")
	}
	if conf.Cache.Enabled && conf.Cache.Size <= 0 {
		return errs.NewConfigurationMissingError("cache.size")
	}
	if conf.Messages.MaxConcurrentFetches < 0 {
		return errs.NewValidationError("messages.maxConcurrentFetches must not be negative")
	}
	return nil
}
