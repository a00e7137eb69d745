package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/rifx/chunk"
	"github.com/wippyai/rifx/errors"
	"github.com/wippyai/rifx/internal/rifxtest"
	"github.com/wippyai/rifx/movie"
)

type options struct {
	file        string
	tag         string
	workers     int
	verbose     bool
	interactive bool
	demo        bool
	littleEnd   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "Path to a RIFX/XFIR container")
	flag.StringVar(&opts.tag, "tag", "", "Only list chunks with this tag")
	flag.IntVar(&opts.workers, "workers", 0, "Goroutines used for the chunk table scan")
	flag.BoolVar(&opts.verbose, "v", false, "Log resolution steps to stderr")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.demo, "demo", false, "Use a built-in sample container instead of -file")
	flag.BoolVar(&opts.littleEnd, "xfir", false, "With -demo, build the little-endian (XFIR) sample")
	flag.Parse()

	if opts.file == "" && !opts.demo {
		fmt.Fprintln(os.Stderr, "Usage: rifxdump -file <movie.dir> [-tag TAG] [-workers N] [-v]")
		fmt.Fprintln(os.Stderr, "       rifxdump -file <movie.dir> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       rifxdump -demo [-xfir]")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	log := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer l.Sync() //nolint:errcheck
		log = l
	}

	data, name, err := load(opts)
	if err != nil {
		return err
	}

	m, err := movie.ReadWithConfig(data, &movie.Config{Logger: log, Workers: opts.workers})
	if err != nil {
		return fmt.Errorf("resolve %s: %w", name, err)
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.interactive {
		if !tty {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(name, m)
	}

	printMovie(os.Stdout, name, m, chunk.Tag(opts.tag), newStyles(tty))
	return nil
}

func load(opts options) ([]byte, string, error) {
	if opts.demo {
		order := chunk.BigEndian
		if opts.littleEnd {
			order = chunk.LittleEndian
		}
		return rifxtest.Sample(order), "demo", nil
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, "", errors.Load("read file", err)
	}
	return data, opts.file, nil
}

type styles struct {
	title  lipgloss.Style
	tag    lipgloss.Style
	faint  lipgloss.Style
	header lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, tag: plain, faint: plain, header: plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		tag:    lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		faint:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
	}
}

func printMovie(w io.Writer, name string, m *movie.Movie, filter chunk.Tag, st styles) {
	mmap := m.MemoryMap()

	fmt.Fprintln(w, st.title.Render(name))
	fmt.Fprintf(w, "%s %s\n", st.header.Render("Byte order:"), m.ByteOrder())
	fmt.Fprintf(w, "%s %s\n", st.header.Render("Codec:     "), m.Meta().Codec)
	fmt.Fprintf(w, "%s %d used / %d max (junk %d, free %d)\n",
		st.header.Render("Slots:     "),
		mmap.ChunkCountUsed, mmap.ChunkCountMax, mmap.JunkPointer, mmap.FreePointer)
	fmt.Fprintf(w, "%s %d\n\n", st.header.Render("Chunks:    "), m.Len())

	fmt.Fprintln(w, st.faint.Render(fmt.Sprintf("%5s  %-4s  %10s  %10s  %s", "SLOT", "TAG", "OFFSET", "LENGTH", "CONTENT")))
	for _, i := range m.Indices() {
		c, _ := m.Chunk(i)
		if filter != "" && c.Tag != filter {
			continue
		}
		fmt.Fprintf(w, "%5d  %s  %10d  %10d  %s\n",
			i, st.tag.Render(fmt.Sprintf("%-4s", c.Tag)), c.Offset, c.Length, summarize(c))
	}
}

// summarize renders a one-line description of a chunk's payload.
func summarize(c *chunk.Chunk) string {
	switch v := c.Variant.(type) {
	case *chunk.Meta:
		return "codec " + v.Codec
	case *chunk.InitialMap:
		return fmt.Sprintf("%d entries, mmap at %d", v.EntryCount, firstOr(v.Entries, 0))
	case *chunk.MemoryMap:
		return fmt.Sprintf("%d/%d slots", v.ChunkCountUsed, v.ChunkCountMax)
	case *chunk.Unimplemented:
		return fmt.Sprintf("%d bytes", len(v.Payload))
	default:
		return ""
	}
}

func firstOr(v []uint32, def uint32) uint32 {
	if len(v) == 0 {
		return def
	}
	return v[0]
}
