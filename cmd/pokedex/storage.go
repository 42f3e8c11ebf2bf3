package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "List the slots in the local database",
	Long:  "Lists every stored slot with its size and the time it was last written.",
	Args:  cobra.NoArgs,
	RunE:  runStorage,
}

type slotInfo struct {
	Key     string    `json:"key"`
	Bytes   int       `json:"bytes"`
	Updated time.Time `json:"updated_at"`
}

func runStorage(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	slots, err := e.store.Slots()
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	infos := make([]slotInfo, len(slots))
	for i, s := range slots {
		infos[i] = slotInfo{Key: s.Key, Bytes: len(s.Value), Updated: s.Updated}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{"path": e.cfg.Storage.DBPath, "slots": infos})
	}

	fmt.Fprintf(out, "Database: %s\n", e.cfg.Storage.DBPath)
	if len(infos) == 0 {
		fmt.Fprintln(out, "No slots written yet.")
		return nil
	}

	w := newTabWriter(out)
	fmt.Fprintln(w, "KEY\tSIZE\tUPDATED")
	for _, s := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, byteSize(s.Bytes), s.Updated.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	return nil
}

func byteSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
