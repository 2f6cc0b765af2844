package timelineui

import (
	"html/template"

	"github.com/FawkesguyD/Love/timeline"
)

type shellPage struct {
	State      timeline.State
	Fragment   template.HTML
	ConfigJSON template.JS
	Total      int
	BatchSize  int
	Reduced    bool
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Our Timeline</title>
<style>
  :root { color-scheme: light; }
  body {
    margin: 0;
    font-family: Georgia, 'Times New Roman', serif;
    background: #faf7f2;
    color: #3a3330;
  }
  header.site {
    text-align: center;
    padding: 36px 16px 12px;
  }
  header.site h1 { margin: 0; font-weight: normal; letter-spacing: 2px; }
  #timer { text-align: center; color: #8a7f78; font-size: 14px; min-height: 18px; }
  main { max-width: 720px; margin: 0 auto; padding: 16px; }
  .moment-card {
    background: #fff;
    border-radius: 12px;
    box-shadow: 0 2px 10px rgba(60, 40, 30, 0.08);
    padding: 20px 24px;
    margin: 18px 0;
    transition: transform 0.2s ease;
  }
  .moment-card:hover { transform: translateY(-2px); }
  .moment-card.no-motion, .moment-card.no-motion:hover { transition: none; transform: none; }
  .moment-head { display: flex; justify-content: space-between; align-items: baseline; gap: 12px; }
  .moment-title { margin: 0; font-size: 20px; }
  .moment-date { color: #a0958d; font-size: 13px; white-space: nowrap; }
  .moment-text { line-height: 1.55; }
  .moment-images { display: grid; gap: 6px; margin-top: 12px; position: relative; }
  .moment-images img { width: 100%; height: 100%; object-fit: cover; border-radius: 8px; }
  .moment-images.layout-single { grid-template-columns: 1fr; }
  .moment-images.layout-grid { grid-template-columns: repeat(3, 1fr); }
  .moment-images.count-2 { grid-template-columns: repeat(2, 1fr); }
  .moment-images.count-4 { grid-template-columns: repeat(2, 1fr); }
  .more-badge {
    position: absolute; right: 8px; bottom: 8px;
    background: rgba(0, 0, 0, 0.6); color: #fff;
    padding: 4px 10px; border-radius: 12px; font-size: 13px;
  }
  .moment-tags { list-style: none; display: flex; gap: 8px; padding: 0; margin: 12px 0 0; flex-wrap: wrap; }
  .moment-tags li { background: #f0e9e1; border-radius: 10px; padding: 2px 10px; font-size: 12px; }
  .page-note { text-align: center; color: #8a7f78; padding: 48px 16px; }
  #sentinel { height: 1px; }
</style>
</head>
<body>
<header class="site">
  <h1>Our Timeline</h1>
  <div id="timer"></div>
</header>
<main>
{{- if eq .State "loaded"}}
  <section id="moments" data-total="{{.Total}}" data-batch="{{.BatchSize}}">
{{.Fragment}}
  </section>
  <div id="sentinel"></div>
{{- else if eq .State "empty"}}
  <p class="page-note" id="empty-note">No moments yet. The first one is still being written.</p>
{{- else}}
  <p class="page-note" id="error-note">The timeline could not be loaded. Please try again in a moment.</p>
{{- end}}
</main>
<script>
window.__TIMELINE_CONFIG__ = {{.ConfigJSON}};
(function () {
  var cfg = window.__TIMELINE_CONFIG__;
  var container = document.getElementById('moments');
  var sentinel = document.getElementById('sentinel');
  if (container && sentinel && 'IntersectionObserver' in window) {
    var offset = container.children.length;
    var total = parseInt(container.dataset.total, 10) || 0;
    var loading = false;
    var observer = new IntersectionObserver(function (entries) {
      if (!entries.some(function (e) { return e.isIntersecting; })) return;
      if (loading || offset >= total) return;
      loading = true;
      fetch(cfg.fragmentsPath + '?offset=' + offset)
        .then(function (resp) {
          if (resp.status === 204) { observer.disconnect(); return ''; }
          if (!resp.ok) throw new Error('fragment fetch failed');
          return resp.text();
        })
        .then(function (html) {
          if (html) {
            container.insertAdjacentHTML('beforeend', html);
            offset = container.children.length;
          }
        })
        .catch(function () { /* keep what is already rendered */ })
        .finally(function () { loading = false; });
    }, { rootMargin: '400px' });
    observer.observe(sentinel);
  }

  var timerNode = document.getElementById('timer');
  function syncTimer() {
    fetch(cfg.timerApiUrl)
      .then(function (resp) { return resp.ok ? resp.json() : null; })
      .then(function (data) {
        if (!data || !data.elapsed) return;
        var e = data.elapsed;
        timerNode.textContent = 'Together for ' + e.years + ' years, ' + e.days + ' days, ' +
          e.hours + 'h ' + e.minutes + 'm ' + e.seconds + 's';
      })
      .catch(function () { /* leave the last value in place */ });
  }
  if (timerNode && cfg.timerApiUrl) {
    syncTimer();
    setInterval(syncTimer, cfg.timerSyncIntervalMs || 20000);
  }
})();
</script>
</body>
</html>
`))
