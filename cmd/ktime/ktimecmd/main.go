package ktimecmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"nikand.dev/go/cli"
	"nikand.dev/go/graceful"
	"tlog.app/go/errors"

	"tlog.app/go/tlog"
	"tlog.app/go/tlog/ext/tlflag"

	"tlog.app/go/ktime"
	"tlog.app/go/ktime/vdso"
)

// Stdout is where command results are printed.
var Stdout io.Writer = os.Stdout

func App() *cli.Command {
	nowCmd := &cli.Command{
		Name:        "now,read",
		Description: "read clocks (realtime if none given)",
		Action:      now,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("time,t", false, "also print realtime as RFC 3339"),
		},
	}

	resCmd := &cli.Command{
		Name:        "res,resolution",
		Description: "print clock resolutions (all clocks if none given)",
		Action:      res,
		Args:        cli.Args{},
	}

	setCmd := &cli.Command{
		Name:        "set",
		Description: "set realtime clock to <sec[.frac]|rfc3339>",
		Action:      set,
		Args:        cli.Args{},
	}

	diffCmd := &cli.Command{
		Name:        "diff,sub",
		Description: "print a - b for two timespecs",
		Action:      diff,
		Args:        cli.Args{},
	}

	addCmd := &cli.Command{
		Name:        "add",
		Description: "print <timespec> + <duration> (or - with --minus)",
		Action:      add,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("minus,m", false, "subtract the duration"),
		},
	}

	watchCmd := &cli.Command{
		Name:        "watch,ticker",
		Description: "read a clock once in an interval and report backward steps",
		Action:      watch,
		Flags: []*cli.Flag{
			cli.NewFlag("clock,c", "monotonic", "clock to read"),
			cli.NewFlag("interval,int,i", time.Second, "interval to read on"),
			cli.NewFlag("count,n", 0, "stop after n reads (0 is until interrupted)"),
		},
	}

	app := &cli.Command{
		Name:        "ktime",
		Description: "kernel clocks tool",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr?dm", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.NewFlag("no-fast", false, "always enter the kernel"),
			cli.FlagfileFlag,
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			nowCmd,
			resCmd,
			setCmd,
			diffCmd,
			addCmd,
			watchCmd,
			{
				Name:        "list,ls",
				Description: "list known clock ids",
				Action:      list,
			},
			{
				Name:        "probe",
				Description: "report fast path and vdso symbols",
				Action:      probe,
				Flags: []*cli.Flag{
					cli.NewFlag("symbols,s", false, "dump all vdso symbols"),
				},
			},
		},
	}

	return app
}

func before(c *cli.Command) error {
	w, err := tlflag.OpenWriter(c.String("log"))
	if err != nil {
		return errors.Wrap(err, "open log file")
	}

	tlog.DefaultLogger = tlog.New(w)

	tlog.SetVerbosity(c.String("verbosity"))

	if c.Bool("no-fast") {
		ktime.DefaultClock = ktime.NewClock(ktime.NoFastPath)
	}

	return nil
}

func now(c *cli.Command) error {
	ids, err := parseClocks(c.Args, []ktime.ClockID{ktime.Realtime})
	if err != nil {
		return err
	}

	for _, id := range ids {
		ts, err := ktime.Now(id)
		if err != nil {
			return errors.Wrap(err, "read %v", id)
		}

		if c.Bool("time") && id == ktime.Realtime {
			fmt.Fprintf(Stdout, "%-16v %v  %v\n", id, ts, ts.Time().UTC().Format(time.RFC3339Nano))
			continue
		}

		fmt.Fprintf(Stdout, "%-16v %v\n", id, ts)
	}

	return nil
}

func res(c *cli.Command) error {
	ids, err := parseClocks(c.Args, ktime.ClockIDs())
	if err != nil {
		return err
	}

	for _, id := range ids {
		r, err := ktime.Resolution(id)
		if err != nil {
			fmt.Fprintf(Stdout, "%-16v error: %v\n", id, err)
			continue
		}

		fmt.Fprintf(Stdout, "%-16v %v\n", id, r)
	}

	return nil
}

func set(c *cli.Command) error {
	if c.Args.Len() != 1 {
		return errors.New("expected exactly one argument: time to set")
	}

	ts, err := ktime.ParseTimespec(c.Args.First())
	if err != nil {
		return err
	}

	prev, err := ktime.Now(ktime.Realtime)
	if err != nil {
		return errors.Wrap(err, "read realtime")
	}

	err = ts.SetClock()
	if err != nil {
		return errors.Wrap(err, "set realtime")
	}

	tlog.Printw("realtime clock set", "to", ts, "from", prev, "step", ts.Sub(prev))

	return nil
}

func diff(c *cli.Command) error {
	if c.Args.Len() != 2 {
		return errors.New("expected two timespecs")
	}

	a, err := ktime.ParseTimespec(c.Args[0])
	if err != nil {
		return errors.Wrap(err, "a")
	}

	b, err := ktime.ParseTimespec(c.Args[1])
	if err != nil {
		return errors.Wrap(err, "b")
	}

	d, ok := a.SubTimespec(b)

	sign := ""
	if !ok {
		sign = "-"
	}

	fmt.Fprintf(Stdout, "%s%v\n", sign, d)

	return nil
}

func add(c *cli.Command) error {
	if c.Args.Len() != 2 {
		return errors.New("expected timespec and duration")
	}

	r, err := addDuration(c.Args[0], c.Args[1], c.Bool("minus"))
	if err != nil {
		return err
	}

	fmt.Fprintf(Stdout, "%v\n", r)

	return nil
}

func addDuration(ts, dur string, minus bool) (ktime.Timespec, error) {
	t, err := ktime.ParseTimespec(ts)
	if err != nil {
		return ktime.Timespec{}, err
	}

	d, err := ktime.ParseDuration(strings.TrimPrefix(dur, "+"))
	if err != nil {
		return ktime.Timespec{}, err
	}

	r, ok := t.CheckedAddDuration(d)
	op := "+"

	if minus {
		r, ok = t.CheckedSubDuration(d)
		op = "-"
	}

	if !ok {
		return ktime.Timespec{}, errors.New("overflow: %v %v %v", t, op, d)
	}

	return r, nil
}

func list(c *cli.Command) error {
	for _, id := range ktime.ClockIDs() {
		fmt.Fprintf(Stdout, "%2d  %-16v settable=%v\n", int32(id), id, id.Settable())
	}

	return nil
}

func probe(c *cli.Command) error {
	st := ktime.DefaultClock.Resolve()

	fmt.Fprintf(Stdout, "fast path: %v\n", st)

	sym := vdso.ClockGettime()
	if sym.Name == "" {
		fmt.Fprintf(Stdout, "vdso: no clock_gettime symbol known for this arch\n")
		return nil
	}

	img, err := vdso.Load()
	if err != nil {
		fmt.Fprintf(Stdout, "vdso: %v\n", err)
		return nil
	}

	addr, found := img.Lookup(sym)

	fmt.Fprintf(Stdout, "vdso: base %#x\n", img.Base)

	if found {
		fmt.Fprintf(Stdout, "vdso: %v@%v at %#x\n", sym.Name, sym.Version, addr)
	} else {
		fmt.Fprintf(Stdout, "vdso: %v@%v not found\n", sym.Name, sym.Version)
	}

	if c.Bool("symbols") {
		for _, s := range img.Symbols() {
			fmt.Fprintf(Stdout, "  %v\n", s)
		}
	}

	return nil
}

func watch(c *cli.Command) error {
	id, err := ktime.ParseClockID(c.String("clock"))
	if err != nil {
		return err
	}

	group := graceful.New()
	group.Signals = append(group.Signals, syscall.SIGTERM)

	group.Add(func(ctx context.Context) error {
		return watchLoop(ctx, id, c.Duration("interval"), c.Int("count"))
	})

	return group.Run(context.Background(), graceful.IgnoreErrors(context.Canceled))
}

func watchLoop(ctx context.Context, id ktime.ClockID, every time.Duration, count int) error {
	t := time.NewTicker(every)
	defer t.Stop()

	var prev ktime.Timespec
	steps := 0

	for i := 0; count == 0 || i < count; i++ {
		ts, err := ktime.Now(id)
		if err != nil {
			return errors.Wrap(err, "read %v", id)
		}

		if i != 0 {
			d := ts.Sub(prev)

			if d < 0 {
				steps++
				tlog.Printw("clock stepped back", "clock", id, "ts", ts, "prev", prev, "step", d, "steps", steps, "", tlog.Warn)
			}

			tlog.V("watch").Printw("read", "i", i, "clock", id, "ts", ts, "delta", d)
		}

		fmt.Fprintf(Stdout, "%v\n", ts)

		prev = ts

		if count != 0 && i+1 == count {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	if steps != 0 {
		return errors.New("%v stepped back %d times", id, steps)
	}

	return nil
}

func parseClocks(args []string, def []ktime.ClockID) ([]ktime.ClockID, error) {
	if len(args) == 0 {
		return def, nil
	}

	ids := make([]ktime.ClockID, 0, len(args))

	for _, a := range args {
		id, err := ktime.ParseClockID(a)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}
