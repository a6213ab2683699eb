// Command tactile-replay loads a YAML scene, replays a JSON touch script
// against it headlessly and prints every interaction event.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/phanxgames/tactile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	scene     string
	script    string
	config    string
	frames    int
	dt        float64
	verbosity string
	quiet     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("[tactile]"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "tactile-replay",
		Short: "Replay a touch script against a scene",
		Long: `Loads a scene of shaped elements, feeds the touches of a script into it
frame by frame and prints the resulting interaction events.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.scene, "scene", "", "YAML scene file (required)")
	cmd.Flags().StringVar(&opts.script, "script", "", "JSON touch script (required)")
	cmd.Flags().StringVar(&opts.config, "config", "", "YAML engine configuration")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "frames to run after the script finished")
	cmd.Flags().Float64Var(&opts.dt, "dt", 1.0/60, "seconds per frame")
	cmd.Flags().StringVarP(&opts.verbosity, "verbosity", "v", "warn", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the summary")
	_ = cmd.MarkFlagRequired("scene")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// maxFrames caps replays whose script never drains.
const maxFrames = 1 << 20

func runReplay(out io.Writer, opts options) error {
	level, err := logrus.ParseLevel(opts.verbosity)
	if err != nil {
		return fmt.Errorf("verbosity: %w", err)
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	tactile.SetLogger(log)
	defer tactile.SetLogger(nil)

	cfg := tactile.DefaultConfig()
	if opts.config != "" {
		if cfg, err = tactile.LoadConfig(opts.config); err != nil {
			return err
		}
	}
	scene, err := tactile.LoadScene(opts.scene)
	if err != nil {
		return err
	}
	runner, err := tactile.LoadTouchScript(opts.script)
	if err != nil {
		return err
	}
	if opts.dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", opts.dt)
	}

	ctx := tactile.NewContext(cfg)
	ctx.Update(scene.Prototypes()...)
	ctx.SetScriptRunner(runner)

	counts := make(map[tactile.EventType]int)
	for t := tactile.EventInteractionBegin; t <= tactile.EventElementsDeleted; t++ {
		ctx.On(t, func(e tactile.Event) {
			counts[e.Type]++
			if !opts.quiet {
				printEvent(out, ctx.Frame(), e)
			}
		})
	}

	frames := 0
	for !runner.Done() && frames < maxFrames {
		ctx.Tick(opts.dt)
		frames++
	}
	for i := 0; i < opts.frames; i++ {
		ctx.Tick(opts.dt)
		frames++
	}

	fmt.Fprintf(out, "%s %d frames, %d elements\n", color.GreenString("[tactile]"), frames, len(ctx.Nodes()))
	for t := tactile.EventInteractionBegin; t <= tactile.EventElementsDeleted; t++ {
		if counts[t] > 0 {
			fmt.Fprintf(out, "  %-18s %d\n", t, counts[t])
		}
	}
	return nil
}

func printEvent(out io.Writer, frame uint64, e tactile.Event) {
	name := color.CyanString("%-18s", e.Type)
	switch {
	case e.Node != nil && e.Touch != nil:
		fmt.Fprintf(out, "%6d %s %s touch=%d\n", frame, name, e.Node.Path(), e.Touch.ID)
	case e.Node != nil:
		fmt.Fprintf(out, "%6d %s %s\n", frame, name, e.Node.Path())
	case len(e.Nodes) > 0:
		fmt.Fprintf(out, "%6d %s %d nodes\n", frame, name, len(e.Nodes))
	default:
		fmt.Fprintf(out, "%6d %s\n", frame, name)
	}
}
