package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simehaa/AlievPanfilovCPU/internal/config"
	"github.com/simehaa/AlievPanfilovCPU/internal/export"
	"github.com/simehaa/AlievPanfilovCPU/internal/fsutil"
	"github.com/simehaa/AlievPanfilovCPU/internal/meshdata"
	"github.com/simehaa/AlievPanfilovCPU/internal/monitoring"
	"github.com/simehaa/AlievPanfilovCPU/internal/render"
	"github.com/simehaa/AlievPanfilovCPU/internal/version"
)

// Output filenames that are not configurable.
const (
	snapshotName = "snapshot.html"
	netcdfName   = "mesh.nc"
)

// globalFlags are shared by every subcommand. Flags override the
// matching config file values when set.
type globalFlags struct {
	dataDir    string
	configPath string
	outDir     string
	fps        float64
	palette    string
	quiet      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "meshanim",
		Short: "Animate and archive Aliev-Panfilov mesh slices.",
		Long: "meshanim reads e/r grid files and the optional info.txt from a " +
			"data directory, validates them as one time-ordered dataset and " +
			"renders or exports the result. Without a subcommand it renders.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.quiet {
				monitoring.SetLogger(nil)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.dataDir, "data", "", "data directory (default ./data)")
	pf.StringVar(&g.configPath, "config", "", "path to a JSON render config")
	pf.StringVar(&g.outDir, "out", "", "output directory (default .)")
	pf.Float64Var(&g.fps, "fps", 0, "animation frames per second (default 5)")
	pf.StringVar(&g.palette, "palette", "", "colour map: "+strings.Join(config.Palettes, ", "))
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "suppress progress logging")

	renderCmd := newRenderCmd(g)
	root.RunE = renderCmd.RunE
	root.Flags().AddFlagSet(renderCmd.Flags())

	root.AddCommand(
		renderCmd,
		newInspectCmd(g),
		newExportCmd(g),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.RenderConfig, error) {
	cfg := config.EmptyRenderConfig()
	if g.configPath != "" {
		var err error
		if cfg, err = config.LoadRenderConfig(g.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = &g.dataDir
	}
	if flags.Changed("out") {
		cfg.OutputDir = &g.outDir
	}
	if flags.Changed("fps") {
		cfg.FPS = &g.fps
	}
	if flags.Changed("palette") {
		cfg.Palette = &g.palette
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// create opens path for writing through fsys and hands it to write.
func create(fsys fsutil.FileSystem, path string, write func(io.Writer) error) (err error) {
	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := write(w); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var html, netcdf, noManifest bool
	var htmlFrame int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dataset to an animated GIF.",
		Long: "render writes one GIF frame per timestep, tiling the e and r " +
			"series side by side. --html, --netcdf and the manifest add " +
			"further outputs to the same directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("html") {
				cfg.WriteHTML = &html
			}
			if flags.Changed("html-frame") {
				cfg.HTMLFrame = &htmlFrame
			}
			if flags.Changed("netcdf") {
				cfg.WriteNetCDF = &netcdf
			}
			if flags.Changed("no-manifest") {
				write := !noManifest
				cfg.WriteManifest = &write
			}
			return runRender(fsutil.OSFileSystem{}, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "also write an interactive HTML snapshot")
	cmd.Flags().IntVar(&htmlFrame, "html-frame", -1, "frame shown in the HTML snapshot; negative counts from the end")
	cmd.Flags().BoolVar(&netcdf, "netcdf", false, "also write a NetCDF archive")
	cmd.Flags().BoolVar(&noManifest, "no-manifest", false, "skip the JSON run manifest")
	return cmd
}

// runRender assembles the data directory and writes every output the
// config asks for into fsys, listing each path on out.
func runRender(fsys fsutil.FileSystem, cfg *config.RenderConfig, out io.Writer) error {
	ds, err := meshdata.NewAssembler(fsys).Assemble(cfg.GetDataDir())
	if err != nil {
		return err
	}

	outDir := cfg.GetOutputDir()
	if err := fsys.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	manifest := export.NewManifest(ds, cfg.GetDataDir())
	wrote := func(path string) {
		manifest.AddOutput(path)
		fmt.Fprintln(out, path)
	}

	gifPath := filepath.Join(outDir, cfg.GetGIFName())
	anim := render.NewAnimator(render.OptionsFromConfig(cfg))
	if err := create(fsys, gifPath, func(w io.Writer) error { return anim.WriteGIF(ds, w) }); err != nil {
		return err
	}
	wrote(gifPath)

	if cfg.GetWriteHTML() {
		frame, err := render.ResolveFrame(cfg.GetHTMLFrame(), ds.FrameCount())
		if err != nil {
			return err
		}
		htmlPath := filepath.Join(outDir, snapshotName)
		if err := create(fsys, htmlPath, func(w io.Writer) error {
			return render.WriteSnapshotHTML(ds, frame, w)
		}); err != nil {
			return err
		}
		wrote(htmlPath)
	}

	if cfg.GetWriteNetCDF() {
		ncPath := filepath.Join(outDir, netcdfName)
		if err := export.WriteNetCDFTo(fsys, ds, ncPath); err != nil {
			return err
		}
		wrote(ncPath)
	}

	if cfg.GetWriteManifest() {
		mPath := filepath.Join(outDir, export.ManifestName)
		if err := export.WriteManifest(fsys, manifest, mPath); err != nil {
			return err
		}
		fmt.Fprintln(out, mPath)
	}
	return nil
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Validate the data directory and summarise its contents.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			ds, err := meshdata.NewAssembler(fsutil.OSFileSystem{}).Assemble(cfg.GetDataDir())
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), ds)
			return nil
		},
	}
}

// writeSummary prints one line per series followed by the metadata.
func writeSummary(w io.Writer, ds *meshdata.Dataset) {
	fmt.Fprintf(w, "frames: %d\n", ds.FrameCount())
	for _, k := range ds.Keys() {
		s, _ := ds.Series(k)
		idx := s.Indices()
		fmt.Fprintf(w, "series %-5s %s  timesteps %d..%d\n", k, s.Shape(), idx[0], idx[len(idx)-1])
	}

	md := ds.Metadata()
	if md == nil {
		fmt.Fprintln(w, "metadata: none")
		return
	}
	for _, k := range md.Keys() {
		v, _ := md.Scalar(k)
		fmt.Fprintf(w, "%s = %g\n", k, v)
	}
	if ts := md.Timestamps(); len(ts) > 0 {
		fmt.Fprintf(w, "time: %g .. %g (%d stamps)\n", ts[0], ts[len(ts)-1], len(ts))
	}
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset to a NetCDF archive.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			fsys := fsutil.OSFileSystem{}
			ds, err := meshdata.NewAssembler(fsys).Assemble(cfg.GetDataDir())
			if err != nil {
				return err
			}
			if err := fsys.MkdirAll(cfg.GetOutputDir(), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(cfg.GetOutputDir(), name)
			if err := export.WriteNetCDFTo(fsys, ds, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", netcdfName, "archive filename inside the output directory")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
