// Package log provides structured logging for model training, backed by
// zerolog. Estimators obtain a named logger and emit progress events during
// Fit; warnings raised through pkg/errors are routed here so they appear as
// structured warn-level records.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/aenet/pkg/errors"
)

var (
	mu   sync.RWMutex
	root = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

func init() {
	// pkg/errors.Warn をzerolog経由で出力する（循環importを避けるためフック登録）
	errors.SetZerologWarnFunc(logWarning)
}

// GetLogger はライブラリのルートロガーを返す
func GetLogger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// GetLoggerWithName はコンポーネント名付きのロガーを返す
//
// 使用例:
//
//	logger := log.GetLoggerWithName("linear").With().
//	    Str("model", "AdaptiveElasticNet").Logger()
//	logger.Info().Int("n_samples", n).Msg("fit started")
func GetLoggerWithName(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With().Str("component", name).Logger()
}

// SetOutput はログの出力先を設定する（テスト用）
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = root.Output(w)
}

// SetLevel はグローバルなログレベルを設定する
// 有効な値: "debug", "info", "warn", "error", "disabled"
func SetLevel(level string) error {
	lv, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level: %s", level)
	}
	mu.Lock()
	defer mu.Unlock()
	root = root.Level(lv)
	return nil
}

// logWarning は警告を構造化ログとして出力する
// 警告型がzerolog.LogObjectMarshalerを実装していればフィールドを展開する
func logWarning(w error) {
	mu.RLock()
	logger := root
	mu.RUnlock()

	ev := logger.Warn()
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		ev = ev.EmbedObject(m)
	}
	ev.Msg(w.Error())
}
