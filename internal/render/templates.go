package render

// Built-in templates. A theme system is out of scope; these mirror the
// minimal chrome of the generated site: every page links back home and to
// the feed, the index is a reverse-chronological list.

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }} &middot; {{ .Site.Title }}</title>
<link rel="stylesheet" href="/style.css">
<link rel="alternate" type="application/rss+xml" title="{{ .Site.Title }}" href="/rss.xml">
</head>
<body>
<header>
<nav><a href="/">{{ .Site.Title }}</a> &middot; <a href="/rss.xml">feed</a></nav>
</header>
<main>
<article>
<h1>{{ .Title }}</h1>
{{ if .Date }}<p class="meta">{{ .Date }}</p>{{ end }}
{{ .Body }}
</article>
</main>
</body>
</html>
`

const tocEntryTemplate = `<li><a href="{{ .URL }}">{{ .Title }}</a>{{ if .Date }} <span class="meta">{{ .Date }}</span>{{ end }}</li>
`

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}</title>
<link rel="stylesheet" href="/style.css">
<link rel="alternate" type="application/rss+xml" title="{{ .Site.Title }}" href="/rss.xml">
</head>
<body>
<header>
<nav><a href="/">{{ .Site.Title }}</a> &middot; <a href="/rss.xml">feed</a></nav>
</header>
<main>
<h1>{{ .Title }}</h1>
<ul class="posts">
{{ range .Entries }}{{ . }}{{ end }}</ul>
</main>
</body>
</html>
`

const feedEntryTemplate = `    <item>
      <title>{{ xml .Title }}</title>
      <link>{{ xml .URL }}</link>
      <guid>{{ xml .URL }}</guid>
{{- if .PubDate }}
      <pubDate>{{ .PubDate }}</pubDate>
{{- end }}
      <description>{{ xml .Description }}</description>
    </item>
`
