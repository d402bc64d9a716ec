package badger

import (
	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapAdapter routes badger's internal logging into zap. Badger reports
// compaction and replay progress at info, which lands at debug here.
type zapAdapter struct {
	log *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, args ...any)   { a.log.Errorf(msg, args...) }
func (a *zapAdapter) Warningf(msg string, args ...any) { a.log.Warnf(msg, args...) }
func (a *zapAdapter) Infof(msg string, args ...any)    { a.log.Debugf(msg, args...) }
func (a *zapAdapter) Debugf(msg string, args ...any)   { a.log.Debugf(msg, args...) }
