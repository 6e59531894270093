package site

// pageTemplate is the document shell. The app region is rendered separately
// so live sessions can replace it without reloading the page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>{{.BaseCSS}}</style>
  {{- if .Stylesheet}}
  <link rel="stylesheet" id="site-css" href="{{.Stylesheet}}">
  {{- end}}
</head>
<body>
  <div id="app"{{if .LiveURL}} data-live="{{.LiveURL}}"{{end}}>{{.App}}</div>
  {{- if .LiveURL}}
  <script>{{.Script}}</script>
  {{- end}}
</body>
</html>`

// appTemplate renders the navigable part of the page.
const appTemplate = `{{if .Loading -}}
<p id="message">Loading...</p>
{{- else -}}
<div id="md-party">
  {{- if .Header}}
  <header>{{.Header}}</header>
  {{- end}}
  <nav>
    <label for="nav-burger" id="nav-burger-icon">&#9776;</label>
    <input type="checkbox" id="nav-burger">
    <span id="nav-title">{{.SiteTitle}}</span>
    <div id="nav-items">
      {{- range .Nav}}
      <a href="{{.Href}}" class="nav-item{{if .Active}} active{{end}}">{{.Name}}</a>
      {{- end}}
    </div>
  </nav>
  {{- if .NotFound}}
  <p id="message">Page not found</p>
  {{- else}}
  <main>{{.Content}}</main>
  {{- end}}
  {{- if .Footer}}
  <footer>{{.Footer}}</footer>
  {{- end}}
</div>
{{- end}}`

// cssContent is the base stylesheet. A site stylesheet, when configured,
// is linked after it and overrides it.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-nav: #f1f3f5;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --code-bg: #f1f3f5;
  --content-max-width: 900px;
}

@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1b26;
    --bg-nav: #16171f;
    --text: #c0caf5;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1a1b2e;
    --code-bg: #1f2030;
  }
}

*, *::before, *::after { box-sizing: border-box; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
}

#message {
  text-align: center;
  margin-top: 20vh;
  color: var(--text-muted);
}

header, main, footer {
  max-width: var(--content-max-width);
  margin: 0 auto;
  padding: 16px 24px;
}

footer {
  border-top: 1px solid var(--border);
  color: var(--text-muted);
  font-size: 0.9rem;
}

nav {
  position: sticky;
  top: 0;
  display: flex;
  flex-wrap: wrap;
  align-items: center;
  gap: 8px 16px;
  padding: 8px 24px;
  background: var(--bg-nav);
  border-bottom: 1px solid var(--border);
}

#nav-title { font-weight: 700; color: var(--accent); }
#nav-burger, #nav-burger-icon { display: none; }
#nav-items { display: flex; flex-wrap: wrap; gap: 4px; }

.nav-item {
  padding: 4px 10px;
  border-radius: 6px;
  color: var(--text);
  text-decoration: none;
}

.nav-item:hover { background: var(--accent-light); }
.nav-item.active { background: var(--accent); color: #fff; }

pre, code { background: var(--code-bg); border-radius: 4px; }
pre { padding: 12px; overflow-x: auto; }
a { color: var(--accent); }
table { border-collapse: collapse; }
th, td { border: 1px solid var(--border); padding: 6px 10px; }

@media (max-width: 700px) {
  #nav-burger-icon { display: inline; cursor: pointer; font-size: 1.4rem; }
  #nav-items { display: none; width: 100%; flex-direction: column; }
  #nav-burger:checked ~ #nav-items { display: flex; }
}`

// liveScript connects the page to its server session. It reports fragment
// changes and applies the renders and fragment writes the server pushes.
const liveScript = `(function () {
  var app = document.getElementById('app');
  var path = app.getAttribute('data-live');
  if (!path || !window.WebSocket) return;
  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var ws = new WebSocket(proto + '//' + location.host + path);
  function send(type) {
    ws.send(JSON.stringify({type: type, fragment: location.hash}));
  }
  ws.onopen = function () { send('hello'); };
  window.addEventListener('hashchange', function () {
    if (ws.readyState === WebSocket.OPEN) send('hashchange');
  });
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === 'render') {
      app.innerHTML = msg.html;
      document.title = msg.title;
      if (msg.stylesheet) {
        var link = document.getElementById('site-css');
        if (!link) {
          link = document.createElement('link');
          link.id = 'site-css';
          link.rel = 'stylesheet';
          document.head.append(link);
        }
        if (link.getAttribute('href') !== msg.stylesheet) link.href = msg.stylesheet;
      }
    } else if (msg.type === 'navigate') {
      location.hash = msg.fragment;
    }
  };
})();`
