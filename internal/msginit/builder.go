package msginit

import (
	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/gettext"
)

// targetAlias names the alias nodes are added to. It is expanded on each
// builder call so a later change of $POCREATE_ALIAS is honored.
const targetAlias = "${" + AliasKey + ":-" + DefaultAlias + "}"

// NewBuilder returns the builder creating catalogs with action. Targets get
// $POSUFFIX, sources $POTSUFFIX, and every node joins $POCREATE_ALIAS.
func NewBuilder(action build.Action) *build.Builder {
	return gettext.NewPOFileBuilder(action, targetAlias)
}
