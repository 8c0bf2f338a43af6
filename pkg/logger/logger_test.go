package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/pkg/logger"
)

var _ = Describe("Logger", func() {
	DescribeTable("ParseLevel",
		func(in string, want slog.Level) {
			Expect(logger.ParseLevel(in)).To(Equal(want))
		},
		Entry("debug", "debug", slog.LevelDebug),
		Entry("upper case", "WARN", slog.LevelWarn),
		Entry("warning alias", "warning", slog.LevelWarn),
		Entry("error", "error", slog.LevelError),
		Entry("unknown falls back to info", "chatty", slog.LevelInfo),
	)

	It("should write json records at or above the level", func() {
		var buf bytes.Buffer
		lg := logger.InitWriter(&buf, "warn", "json")

		lg.Info("dropped")
		lg.Warn("kept", "issue_id", "abc")

		var record map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
		Expect(record).To(HaveKeyWithValue("msg", "kept"))
		Expect(record).To(HaveKeyWithValue("issue_id", "abc"))
	})

	It("should carry fields through the context", func() {
		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))

		ctx := logger.WithLogger(context.Background(), base)
		ctx = logger.With(ctx, "user_email", "a@example.com")
		logger.From(ctx).Info("hello")

		Expect(buf.String()).To(ContainSubstring(`"user_email":"a@example.com"`))
	})

	It("should fall back to the process logger", func() {
		Expect(logger.From(context.Background())).NotTo(BeNil())
	})
})
