// Copyright 2025 phmmcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"log/slog"

	"github.com/nilsvik/phmmcore/dpstatus"
)

// Logger is the narrow structured-logging seam a Job reports its
// stage transitions through — a Before/After pair around one unit of
// work rather than a general-purpose logging facade: a Job
// only ever needs to announce "stage X started on job Y" and "stage X
// finished with status Z", never arbitrary free-form messages.
type Logger interface {
	// StageStarted is called immediately before a DP stage (Forward,
	// Backward, Decode, AnchorFind) runs for job.
	StageStarted(job Job, stage string)
	// StageFinished is called after a DP stage completes, with the
	// status it returned.
	StageFinished(job Job, stage string, status dpstatus.Status)
}

// NoopLogger discards every event. It is the default when a caller
// does not supply one, keeping logging opt-in.
type NoopLogger struct{}

func (NoopLogger) StageStarted(Job, string)                   {}
func (NoopLogger) StageFinished(Job, string, dpstatus.Status) {}

// SlogLogger adapts Logger to log/slog, for callers that want stage
// events in their ordinary structured log stream.
type SlogLogger struct {
	Log *slog.Logger
}

// NewSlogLogger wraps log. A nil log falls back to slog.Default().
func NewSlogLogger(log *slog.Logger) SlogLogger {
	if log == nil {
		log = slog.Default()
	}
	return SlogLogger{Log: log}
}

func (s SlogLogger) StageStarted(job Job, stage string) {
	s.Log.Debug("dp stage started", "stage", stage, "profile", job.Profile.Name(), "seqLen", job.Seq.L())
}

func (s SlogLogger) StageFinished(job Job, stage string, status dpstatus.Status) {
	level := slog.LevelDebug
	if status != dpstatus.OK {
		level = slog.LevelWarn
	}
	s.Log.Log(context.Background(), level, "dp stage finished", "stage", stage, "profile", job.Profile.Name(), "seqLen", job.Seq.L(), "status", status.String())
}
