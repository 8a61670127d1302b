package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gbvm/gbvm/internal/memory"
	"github.com/gbvm/gbvm/pkg/log"
	"github.com/gbvm/gbvm/pkg/utils"
)

func main() {
	romFile := flag.String("rom", "", "The rom file to load")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	l := log.New()
	if *debug {
		l = log.NewDebug()
	}

	path, cleanup, err := stageROM(*romFile)
	if err != nil {
		l.Errorf("could not load rom: %v", err)
		os.Exit(1)
	}
	defer cleanup()

	m, err := memory.New(path, memory.WithLogger(l))
	if err != nil {
		l.Errorf("could not map rom: %v", err)
		os.Exit(1)
	}
	defer m.Close()

	fmt.Printf("ROM information about file %s:\n%s\n", *romFile, m.Header().Dump())
}

// stageROM makes the image at path mappable. Compressed images are
// decompressed to a temporary file first; plain images are mapped in
// place. The returned cleanup removes the temporary file, if any.
func stageROM(path string) (string, func(), error) {
	nop := func() {}
	if path == "" {
		return "", nop, fmt.Errorf("no rom file given")
	}
	if !utils.IsArchive(path) {
		return path, nop, nil
	}

	data, err := utils.LoadFile(path)
	if err != nil {
		return "", nop, err
	}

	f, err := os.CreateTemp("", "gbvm-*.gb")
	if err != nil {
		return "", nop, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nop, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nop, err
	}

	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
