package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/blogforge/internal/config"
)

func toneNames() []string {
	names := make([]string, len(config.Tones))
	for i, t := range config.Tones {
		names[i] = string(t)
	}
	return names
}

// generateBlogPostTool defines the generate_blog_post MCP tool.
var generateBlogPostTool = mcp.NewTool("generate_blog_post",
	mcp.WithDescription("Write an SEO-optimized blog post with headings and subheadings on the given topic. Returns the post as markdown."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("What the post is about"),
	),
	mcp.WithString("tone",
		mcp.Description("Voice of the post (default from configuration)"),
		mcp.Enum(toneNames()...),
	),
	mcp.WithNumber("length",
		mcp.Description("Approximate length in words (default from configuration)"),
	),
)

// listTonesTool defines the list_tones MCP tool.
var listTonesTool = mcp.NewTool("list_tones",
	mcp.WithDescription("List the tones generate_blog_post accepts."),
)
