package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ajitpratap0/rime/internal/arena"
	"github.com/ajitpratap0/rime/pkg/scene"
)

// report is what the run command prints.
type report struct {
	RunID             string        `json:"run_id"`
	Duration          time.Duration `json:"duration_ns"`
	Summary           arena.Summary `json:"summary"`
	Scene             string        `json:"scene"`
	LiveAfterShutdown int           `json:"live_after_shutdown"`
	Memory            *memoryReport `json:"memory,omitempty"`
}

type memoryReport struct {
	RSS uint64 `json:"rss_bytes"`
	VMS uint64 `json:"vms_bytes"`
}

func newReport(runID string, a *arena.Arena, ticks uint64, d time.Duration) *report {
	return &report{
		RunID:    runID,
		Duration: d,
		Summary:  a.Summary(ticks),
		Scene:    scene.DumpString(a.Engine.Root()),
		Memory:   readMemory(),
	}
}

// readMemory samples the memory of the current process; nil when the
// platform does not expose it.
func readMemory() *memoryReport {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pids fit in int32
	if err != nil {
		return nil
	}
	info, err := proc.MemoryInfo()
	if err != nil || info == nil {
		return nil
	}
	return &memoryReport{RSS: info.RSS, VMS: info.VMS}
}

func (r *report) write(w io.Writer, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "run %s: %d ticks in %s\n\n", r.RunID, r.Summary.Ticks, r.Duration.Round(time.Millisecond))
	fmt.Fprint(w, r.Scene)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tKEY\tAVAILABLE\tCHECKED OUT\tTEMPLATE")
	for _, p := range r.Summary.Pools {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\n", p.Family, p.Key, p.Available, p.CheckedOut, p.TemplateBound)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nlive nodes: %d (after shutdown: %d), pending reclamation: %d, bullets shot: %d\n",
		r.Summary.LiveNodes, r.LiveAfterShutdown, r.Summary.Pending, r.Summary.BulletsShot)
	if r.Memory != nil {
		fmt.Fprintf(w, "memory: rss %.1f MiB, vms %.1f MiB\n",
			float64(r.Memory.RSS)/(1<<20), float64(r.Memory.VMS)/(1<<20))
	}
	return nil
}
