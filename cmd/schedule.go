// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/pilosa/tripstar/usecase/trips"
	"github.com/spf13/cobra"
)

// ScheduleMain is wrapped by NewScheduleCommand and only exported for
// testing purposes.
var ScheduleMain *trips.Main

// NewScheduleCommand returns a new cobra command which reruns ScheduleMain at
// a fixed interval.
func NewScheduleCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var every time.Duration
	var runs int
	ScheduleMain = trips.NewMain()
	ScheduleMain.SetOutput(stderr)
	scheduleCommand := &cobra.Command{
		Use:   "schedule",
		Short: "schedule - rebuild the star schema at a fixed interval",
		Long: `Runs the same job as "run" immediately and then every --every,
until interrupted. Each run is a full overwrite with its own
warehouse connection. Failed runs are logged and do not stop the
schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return ScheduleMain.Schedule(ctx, every, runs)
		},
	}
	flags := scheduleCommand.Flags()
	err := commandeer.Flags(flags, ScheduleMain)
	if err != nil {
		panic(err)
	}
	flags.DurationVar(&every, "every", time.Hour, "Interval between runs.")
	flags.IntVar(&runs, "runs", 0, "Stop after this many runs. 0 means run until interrupted.")
	return scheduleCommand
}

func init() {
	subcommandFns["schedule"] = NewScheduleCommand
}
