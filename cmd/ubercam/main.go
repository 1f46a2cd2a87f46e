package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jdshortiss/uber-camera/internal/config"
	"github.com/jdshortiss/uber-camera/internal/dialog"
	"github.com/jdshortiss/uber-camera/internal/director"
	"github.com/jdshortiss/uber-camera/internal/engine"
	"github.com/jdshortiss/uber-camera/internal/registry"
	"github.com/jdshortiss/uber-camera/internal/scene"
	"github.com/jdshortiss/uber-camera/internal/system"
)

// assignFlags collects repeated -assign camera:in-out values.
type assignFlags []config.Assignment

func (a *assignFlags) String() string {
	parts := make([]string, len(*a))
	for i, as := range *a {
		parts[i] = fmt.Sprintf("%s:%d-%d", as.Camera, as.In, as.Out)
	}
	return strings.Join(parts, ",")
}

func (a *assignFlags) Set(v string) error {
	as, err := parseAssignment(v)
	if err != nil {
		return err
	}
	*a = append(*a, as)
	return nil
}

// parseAssignment parses "camera:in-out".
func parseAssignment(v string) (config.Assignment, error) {
	i := strings.LastIndex(v, ":")
	if i <= 0 {
		return config.Assignment{}, fmt.Errorf("expected camera:in-out, got %q", v)
	}
	in, out, ok := strings.Cut(v[i+1:], "-")
	if !ok {
		return config.Assignment{}, fmt.Errorf("expected in-out range, got %q", v[i+1:])
	}
	start, err := strconv.Atoi(in)
	if err != nil {
		return config.Assignment{}, fmt.Errorf("frame in %q: %w", in, err)
	}
	end, err := strconv.Atoi(out)
	if err != nil {
		return config.Assignment{}, fmt.Errorf("frame out %q: %w", out, err)
	}
	return config.Assignment{Camera: v[:i], In: start, Out: end}, nil
}

func main() {
	// Working directories for scenes and outputs
	if err := system.EnsureDirs(system.ScenesDir, system.OutputDir, system.ReportsDir); err != nil {
		log.Fatalf("[-] Error: %v", err)
	}

	var assigns assignFlags
	configPtr := flag.String("config", "", "Path to a YAML config file (default: input/ubercam.yaml if present)")
	scenePtr := flag.String("scene", "", "Scene file (default: most recent file in input/scenes/)")
	outputPtr := flag.String("output", "", "Output scene file (default: generated in output/)")
	reportPtr := flag.String("report", "", "Build report file (default: generated in output/reports/)")
	previewPtr := flag.String("preview", "", "Timeline preview PNG (default: generated in output/, \"none\" to skip)")
	namePtr := flag.String("camera-name", "", "Name of the created camera (default: uber_camera)")
	tuiPtr := flag.Bool("tui", false, "Open the interactive dialog")
	keepTimePtr := flag.Bool("keep-time", false, "Leave the time cursor on the last sampled frame")
	logPtr := flag.String("log", "", "Write log output to this file")
	verbosePtr := flag.Bool("verbose", false, "Verbose logging")
	listPtr := flag.Bool("list", false, "List the user cameras of the scene and exit")
	lastReportPtr := flag.Bool("last-report", false, "Print the most recent build report and exit")
	flag.Var(&assigns, "assign", "Frame range as camera:in-out (repeatable)")

	flag.Parse()

	if *lastReportPtr {
		printLastReport()
		return
	}

	// Load .env file if it exists
	if err := config.LoadEnv(); err == nil {
		fmt.Println("[*] Loaded environment variables from .env")
	}

	configPath := *configPtr
	if configPath == "" {
		if found, ok := system.FindConfig(system.ConfigDir); ok {
			configPath = found
			fmt.Printf("[*] Config: %s\n", configPath)
		}
	}

	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	// Flags override the config file and the environment
	if *scenePtr != "" {
		cfg.ScenePath = *scenePtr
	}
	if *outputPtr != "" {
		cfg.OutputScene = *outputPtr
	}
	if *reportPtr != "" {
		cfg.ReportPath = *reportPtr
	}
	if *previewPtr != "" {
		cfg.PreviewPath = *previewPtr
	}
	if *namePtr != "" {
		cfg.CameraName = *namePtr
	}
	if *logPtr != "" {
		cfg.LogFile = *logPtr
	}
	cfg.Interactive = cfg.Interactive || *tuiPtr
	cfg.KeepTime = cfg.KeepTime || *keepTimePtr
	cfg.Verbose = cfg.Verbose || *verbosePtr
	if len(assigns) > 0 {
		cfg.Assignments = assigns
	}

	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	if cfg.ScenePath == "" {
		latest, err := system.FindLatestScene(system.ScenesDir)
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a scene file in %s/", err, system.ScenesDir)
		}
		cfg.ScenePath = latest
		fmt.Printf("[*] Scene: %s\n", cfg.ScenePath)
	}

	s, err := scene.Load(cfg.ScenePath)
	if err != nil {
		log.Fatalf("[-] Scene error: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("[-] Log error: %v", err)
	}
	defer closeLog()

	if *listPtr {
		listCameras(s)
		return
	}

	var builds []*engine.Build
	if cfg.Interactive {
		builds = runDialog(cfg, s, logger)
	} else {
		builds = runBatch(cfg, s, logger)
	}

	if len(builds) == 0 {
		fmt.Println("[*] No uber camera created, nothing to write")
		return
	}

	out := outputs(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The scene holds every build; report and preview describe the last one
	last := builds[len(builds)-1]
	if err := engine.Export(ctx, s, last, out); err != nil {
		log.Fatalf("[-] Export error: %v", err)
	}

	for _, line := range buildSummary(builds) {
		fmt.Println(line)
	}
	fmt.Printf("[*] Scene: %s\n", out.Scene)
	fmt.Printf("[*] Report: %s\n", out.Report)
	if out.Preview != "" {
		fmt.Printf("[*] Preview: %s\n", out.Preview)
	}
}

// newLogger builds the slog logger. In dialog mode nothing is written to the
// terminal.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	} else if cfg.Interactive {
		w = io.Discard
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func runBatch(cfg *config.Config, s *scene.Scene, logger *slog.Logger) []*engine.Build {
	if len(cfg.Assignments) == 0 {
		log.Fatalf("[-] Error: no frame ranges given. Use -assign camera:in-out, assignments in -config, or -tui")
	}

	sess, err := engine.NewSession(cfg, s, engine.NotifierFunc(printNotice))
	if err != nil {
		log.Fatalf("[-] Session error: %v", err)
	}
	sess.WithLogger(logger)

	failed := 0
	for _, a := range cfg.Assignments {
		if err := sess.Assign(scene.NodeID(a.Camera), a.In, a.Out); err != nil {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("[!] %d of %d frame ranges rejected\n", failed, len(cfg.Assignments))
	}

	b, err := sess.Build()
	if err != nil {
		log.Fatalf("[-] Build error: %v", err)
	}
	return []*engine.Build{b}
}

func runDialog(cfg *config.Config, s *scene.Scene, logger *slog.Logger) []*engine.Build {
	sess, err := engine.NewSession(cfg, s, nil)
	if err != nil {
		log.Fatalf("[-] Session error: %v", err)
	}
	sess.WithLogger(logger)

	// Batch assignments pre-fill the dialog
	for _, line := range prefill(sess, cfg.Assignments) {
		fmt.Println(line)
	}

	final, err := dialog.Run(dialog.New(sess))
	if err != nil {
		log.Fatalf("[-] Dialog error: %v", err)
	}
	return final.Builds()
}

// prefill assigns every requested range to sess and describes the rejected ones.
func prefill(sess *engine.Session, assignments []config.Assignment) []string {
	var skipped []string
	for _, a := range assignments {
		if err := sess.Assign(scene.NodeID(a.Camera), a.In, a.Out); err != nil {
			skipped = append(skipped, fmt.Sprintf("[!] Skipped %s:%d-%d: %v", a.Camera, a.In, a.Out, err))
		}
	}
	return skipped
}

// buildSummary reports the exported build as the result. Earlier builds of
// the same run live in the saved scene but have no report or preview.
func buildSummary(builds []*engine.Build) []string {
	if len(builds) == 0 {
		return nil
	}
	var lines []string
	for _, b := range builds[:len(builds)-1] {
		lines = append(lines, fmt.Sprintf("[*] Earlier build %s is in the scene file only", b.Camera))
	}
	last := builds[len(builds)-1]
	lines = append(lines, fmt.Sprintf("[+++] Success! %s: %d frames from %d cameras", last.Camera, len(last.Table), len(last.Assignments)))
	return lines
}

func printNotice(title, message string) {
	switch title {
	case engine.TitleUpdated, engine.TitleCreated:
		fmt.Printf("[*] %s\n", message)
	default:
		fmt.Printf("[!] %s: %s\n", title, message)
	}
}

func outputs(cfg *config.Config) engine.Outputs {
	out := engine.Outputs{
		Scene:   cfg.OutputScene,
		Report:  cfg.ReportPath,
		Preview: cfg.PreviewPath,
	}
	if out.Scene == "" {
		out.Scene = system.OutputPath(system.OutputDir, cfg.ScenePath, "uber", filepath.Ext(cfg.ScenePath))
	}
	if out.Report == "" {
		out.Report = director.GenerateReportPath(system.ReportsDir)
	}
	switch out.Preview {
	case "none":
		out.Preview = ""
	case "":
		out.Preview = system.OutputPath(system.OutputDir, cfg.ScenePath, "timeline", ".png")
	}
	return out
}

func listCameras(s *scene.Scene) {
	cams, err := registry.ListUserCameras(s)
	if err != nil {
		log.Fatalf("[-] Error: %v", err)
	}
	if len(cams) == 0 {
		fmt.Println("[!] No user cameras in scene")
		return
	}
	for _, cam := range cams {
		keyed, _ := s.CurvesDriving(cam)
		fmt.Printf("[*] %s (%d animated channels)\n", cam, len(keyed))
	}
}

func printLastReport() {
	path, err := director.FindLatestReport(system.ReportsDir)
	if err != nil {
		log.Fatalf("[-] Error: %v", err)
	}
	report, err := director.ReadReport(path)
	if err != nil {
		log.Fatalf("[-] Report error: %v", err)
	}

	fmt.Printf("[*] Report: %s\n", path)
	fmt.Printf("[*] Camera: %s\n", report.Destination)
	for _, src := range report.Sources {
		fmt.Printf("    %-24s %s  %d frames\n", src.Camera, src.Window, len(src.Frames))
	}
}
