package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Scaffolds a working directory for authoring a new AR experience:
// marker assets, experience definitions and a Render.com deploy config
// for the static client.
func main() {
	root, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("🚀 AR experience project setup")
	fmt.Println()

	createDirectories(root)
	createRenderConfig(root)
	createGitignore(root)
	checkGit(root)
	printNextSteps()
}

func createDirectories(root string) {
	fmt.Println("📁 Creating directory structure...")

	dirs := []string{
		"markers",
		"models",
		"assets",
		filepath.Join("data", "experiences"),
	}

	for _, d := range dirs {
		path := filepath.Join(root, d)
		if err := os.MkdirAll(path, 0o755); err != nil {
			log.Fatalf("Failed to create %s: %v", d, err)
		}
		fmt.Printf("   ✓ %s/\n", d)
	}
	fmt.Println()
}

// renderService matches the service block Render.com expects in
// render.yaml. Emitted as JSON, which is valid YAML.
type renderService struct {
	Type              string         `json:"type"`
	Name              string         `json:"name"`
	Env               string         `json:"env"`
	BuildCommand      string         `json:"buildCommand"`
	StaticPublishPath string         `json:"staticPublishPath"`
	Headers           []renderHeader `json:"headers"`
}

type renderHeader struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func createRenderConfig(root string) {
	config := map[string][]renderService{
		"services": {
			{
				Type:              "web",
				Name:              "ar-narrative-experience",
				Env:               "static",
				BuildCommand:      "",
				StaticPublishPath: ".",
				Headers: []renderHeader{
					{Path: "/*", Name: "X-Frame-Options", Value: "SAMEORIGIN"},
					{Path: "/*", Name: "X-Content-Type-Options", Value: "nosniff"},
				},
			},
		},
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "render.yaml"), data, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Println("render.yaml created!")
}

func createGitignore(root string) {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		fmt.Println(".gitignore already exists, leaving it alone")
		return
	}

	content := `# Environment
.env
.env.local

# OS
.DS_Store
Thumbs.db

# IDE
.vscode/
.idea/
*.swp

# Build
dist/
build/

# Temporary files
*.tmp
*.log
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Println(".gitignore created!")
}

func checkGit(root string) {
	if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
		fmt.Println("Git not initialized. Run: git init")
		return
	}
	fmt.Println("Git repository detected")
}

func printNextSteps() {
	fmt.Print(`
NEXT STEPS

1. 📸 Create your NFT markers:
   → Visit https://carnaux.github.io/NFT-Marker-Creator/#/
   → Upload 3 distinctive, high-contrast images
   → Download the .iset/.fset/.fset3 files into markers/
     as marker1.*, marker2.*, marker3.*

2. 🎨 Author your experience:
   → Add an experience definition under data/experiences/
   → Check it with: go run ./cmd/validate data/experiences/<name>.json markers

3. 🚀 Run the engine:
   → docker-compose up -d
   → go run ./cmd/console to walk through the story

💡 Tips:
   - Markers should be at least 10cm when printed
   - Good lighting improves tracking
`)
}
