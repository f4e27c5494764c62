package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/voxel-planet/pkg/world/biome"
)

func main() {
	var (
		src = flag.String("url", "", "go-getter source of a biome registry file")
		out = flag.String("o", "./biomes.yaml", "output file path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *src == "" {
		fmt.Fprintln(os.Stderr, "error: -url flag is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := fetch(log, *src, *out); err != nil {
		log.Error("fetch biome registry", "url", *src, "error", err)
		os.Exit(1)
	}
}

// fetch downloads src next to out, validates it and only then moves it into
// place, so a bad download never replaces a working registry.
func fetch(log *slog.Logger, src, out string) error {
	tmp := out + ".tmp"
	defer os.Remove(tmp)

	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	getters := make(map[string]get.Getter, len(get.Getters))
	for k, v := range get.Getters {
		getters[k] = v
	}
	getters["file"] = &get.FileGetter{Copy: true}

	client := &get.Client{
		Ctx:     context.Background(),
		Src:     src,
		Dst:     tmp,
		Pwd:     pwd,
		Mode:    get.ClientModeFile,
		Getters: getters,
	}

	log.Info("start downloading biome registry", "url", src)
	if err := client.Get(); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	reg, err := biome.Load(tmp)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	overlay := "none"
	if b, threshold := reg.Overlay(); b != nil {
		overlay = fmt.Sprintf("%s@%.3f", b.ID, threshold)
	}
	log.Info("biome registry saved",
		"path", out,
		"biomes", reg.Len(),
		"default", reg.Default().ID,
		"overlay", overlay,
	)
	for _, b := range reg.All() {
		log.Debug("biome", "id", b.ID, "profile", b.Profile, "structures", len(b.Structures))
	}
	return nil
}
