package marksnap

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Store when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is a durable string key-value store for session state.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Keys under which session state is persisted.
const (
	KeyContent     = "marksnap_content"
	KeyCanvasMode  = "marksnap_canvas_mode"
	KeyCustomWidth = "marksnap_custom_width"
	KeyThemeConfig = "marksnap_theme_config"
)

// DefaultMarkdown is the sample document a fresh session starts with.
const DefaultMarkdown = "# Part 1: Introduction\n" +
	"\n" +
	"A powerful **Markdown to Image** converter with GitHub styling.\n" +
	"\n" +
	"## Features\n" +
	"\n" +
	"- 📝 **Live Preview**: Real-time rendering.\n" +
	"- ✂️ **Segmentation**: Use \"===\" to split content into multiple images.\n" +
	"\n" +
	"====\n" +
	"\n" +
	"# Part 2: Code & Lists\n" +
	"\n" +
	"## Code Example\n" +
	"\n" +
	"```javascript\n" +
	"const greet = (name) => {\n" +
	"  return `Hello, ${name}!`;\n" +
	"};\n" +
	"\n" +
	"console.log(greet('World'));\n" +
	"```\n" +
	"\n" +
	"> \"Simplicity is the ultimate sophistication.\"\n" +
	"\n" +
	"=======\n" +
	"\n" +
	"# Part 3: Todo List\n" +
	"\n" +
	"## Tasks\n" +
	"\n" +
	"- [x] Build the editor\n" +
	"- [x] Implement export\n" +
	"- [ ] Take a coffee break\n" +
	"\n" +
	"| Command | Description |\n" +
	"| :--- | :--- |\n" +
	"| `Ctrl + S` | Save (Coming soon) |\n" +
	"| `Ctrl + E` | Export Image |\n"
