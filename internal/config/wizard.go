package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// siteMarkers are files whose presence suggests the working directory
// already holds a site.
var siteMarkers = []string{"config.json", "config.yaml", "config.yml"}

// detectLocalSite returns the first site config found in the current directory.
func detectLocalSite() string {
	for _, marker := range siteMarkers {
		if _, err := os.Stat(marker); err == nil {
			return marker
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to mdparty! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	detected := detectLocalSite()
	if detected != "" {
		fmt.Printf("Detected site config: %s\n\n", detected)
		cfg.ConfigLocation = detected
	}

	// 1. Content source.
	sourcePrompt := promptui.Select{
		Label: "Where does the site content live?",
		Items: []string{
			"local directory",
			"remote URL",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content source selection: %w", err)
	}

	if sourceIdx == 0 {
		dirPrompt := promptui.Prompt{
			Label:   "Content directory",
			Default: cfg.ContentDir,
		}
		cfg.ContentDir, err = dirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("content dir: %w", err)
		}
	} else {
		urlPrompt := promptui.Prompt{
			Label: "Content base URL",
			Validate: func(s string) error {
				probe := DefaultConfig()
				probe.ContentURL = s
				return probe.Validate()
			},
		}
		cfg.ContentURL, err = urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("content url: %w", err)
		}
		cfg.ContentDir = ""
	}

	// 2. Site config location.
	locationPrompt := promptui.Prompt{
		Label:   "Site config location (relative to the content source)",
		Default: cfg.ConfigLocation,
	}
	cfg.ConfigLocation, err = locationPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("config location: %w", err)
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Port for mdparty serve",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Slug strictness.
	strictPrompt := promptui.Select{
		Label: "When two pages share a slug",
		Items: []string{
			"warn and keep the first page reachable",
			"refuse to load the site",
		},
	}
	strictIdx, _, err := strictPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("slug policy: %w", err)
	}
	cfg.StrictSlugs = strictIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
