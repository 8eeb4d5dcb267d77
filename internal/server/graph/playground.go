package graph

import "net/http"

// playgroundPage is a minimal in-browser console for poking the mutation
// endpoint, served on GET /.
const playgroundPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>shopgraph playground</title>
<style>
body { font-family: monospace; margin: 2rem; }
textarea { width: 100%; height: 10rem; }
pre { background: #f4f4f4; padding: 1rem; }
</style>
</head>
<body>
<h1>shopgraph playground</h1>
<p>POST a mutation to <code>/query</code>. Schema: <a href="/schema">/schema</a></p>
<p>Argument values are read from the variables object below; literals inlined
in the query text are not parsed.</p>
<textarea id="query">mutation {
  signUp(handle: "alice", email: "alice@example.com", password: "secret")
}</textarea>
<textarea id="variables">{"handle": "alice", "email": "alice@example.com", "password": "secret"}</textarea>
<button onclick="run()">Run</button>
<pre id="result"></pre>
<script>
async function run() {
  const query = document.getElementById('query').value;
  let variables = {};
  try { variables = JSON.parse(document.getElementById('variables').value); } catch (e) {}
  const res = await fetch('/query', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({query, variables})
  });
  document.getElementById('result').textContent = JSON.stringify(await res.json(), null, 2);
}
</script>
</body>
</html>
`

func (h *Handler) servePlayground(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(playgroundPage))
}
