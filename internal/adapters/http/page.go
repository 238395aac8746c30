package http

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/trailview/internal/core/domain"
)

// The page draws nothing on its own. The map is driven by the commands the
// WebSocket session sends, and it reports the camera back after every move.
var pageTemplate = template.Must(template.New("route").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://api.mapbox.com/mapbox-gl-js/v3.9.0/mapbox-gl.css">
  <style>
    body{margin:0;font-family:system-ui,sans-serif;background:{{if eq .Theme "light"}}#f8fafc{{else}}#0f172a{{end}};color:{{if eq .Theme "light"}}#0f172a{{else}}#e2e8f0{{end}}}
    #map{position:absolute;top:0;bottom:220px;width:100%}
    #chart-wrap{position:absolute;bottom:0;height:220px;width:100%;padding:8px 16px;box-sizing:border-box}
    h1{position:absolute;z-index:1;margin:12px 16px;font-size:18px}
  </style>
</head>
<body>
  <h1>{{.RouteName}}</h1>
  <div id="map"></div>
  <div id="chart-wrap"><canvas id="chart"></canvas></div>
  <script src="https://api.mapbox.com/mapbox-gl-js/v3.9.0/mapbox-gl.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
  <script>
    const view = {{.View}};
    const v = view.variant;
    mapboxgl.accessToken = {{.Token}};
    const map = new mapboxgl.Map({
      container: 'map',
      style: v.map_style,
      projection: v.projection,
      center: [v.camera.center.lon, v.camera.center.lat],
      zoom: v.camera.zoom,
      pitch: v.camera.pitch,
      bearing: v.camera.bearing,
    });

    const pending = [];
    let loaded = false;
    function apply(cmd) {
      if (!loaded) { pending.push(cmd); return; }
      const p = cmd.payload;
      switch (cmd.type) {
      case 'add_layer':
        if (!map.getSource(p.source)) {
          map.addSource(p.source, {type: 'geojson', data: '/v1/routes/' + view.route.slug + '/geojson'});
        }
        map.addLayer({id: p.id, type: 'line', source: p.source,
          layout: {'line-join': 'round', 'line-cap': 'round'},
          paint: {'line-color': p.color, 'line-width': p.width, 'line-opacity': p.opacity}});
        break;
      case 'set_camera':
        map.jumpTo({center: [p.center.lon, p.center.lat], zoom: p.zoom, pitch: p.pitch, bearing: p.bearing});
        break;
      case 'add_marker': {
        const m = new mapboxgl.Marker({color: p.kind === 'finish' ? '#16a34a' : '#2563eb'})
          .setLngLat([p.position.lon, p.position.lat]);
        if (p.text) m.setPopup(new mapboxgl.Popup().setText(p.text));
        m.addTo(map);
        if (p.text) m.togglePopup();
        break;
      }
      }
    }

    const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    const ws = new WebSocket(proto + location.host + '/ws?route=' + encodeURIComponent(view.route.slug) + '&variant=' + encodeURIComponent(v.name));
    ws.onmessage = (e) => {
      const msg = JSON.parse(e.data);
      if (msg.type === 'add_layer' || msg.type === 'set_camera' || msg.type === 'add_marker') apply(msg);
    };
    map.on('load', () => { loaded = true; pending.splice(0).forEach(apply); });
    map.on('moveend', () => {
      if (ws.readyState !== WebSocket.OPEN) return;
      const c = map.getCenter();
      ws.send(JSON.stringify({type: 'camera', state: {
        center: {lat: c.lat, lon: c.lng}, zoom: map.getZoom(), pitch: map.getPitch(), bearing: map.getBearing()}}));
    });
    if (v.rotate_deg_per_sec) {
      let last = performance.now();
      const spin = (now) => {
        if (!map.isMoving()) map.setBearing(map.getBearing() + v.rotate_deg_per_sec * (now - last) / 1000);
        last = now;
        requestAnimationFrame(spin);
      };
      requestAnimationFrame(spin);
    }

    new Chart(document.getElementById('chart'), {
      type: 'line',
      data: {
        labels: view.profile.map(s => s.distance),
        datasets: [{data: view.profile.map(s => s.elevation), borderColor: v.line_color, pointRadius: 0, fill: true}],
      },
      options: {
        maintainAspectRatio: false,
        plugins: {legend: {display: false}},
        scales: {
          x: {type: 'linear', title: {display: true, text: 'Distance (km)'},
              ticks: {callback: (d) => Number(d).toFixed(v.distance_decimals)}},
          y: {title: {display: true, text: 'Elevation (m)'},
              ticks: {callback: (e) => Number(e).toFixed(v.elevation_decimals)}},
        },
      },
    });
  </script>
</body>
</html>`))

type pageData struct {
	Title     string
	RouteName string
	Theme     string
	Token     string
	View      template.JS
}

// RoutePageHandler renders the map and elevation chart page of a route.
func RoutePageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Views.View(c.UserContext(), c.Params("slug"), c.Query("variant", deps.DefaultVariant))
		if err != nil {
			return errFromService(c, err)
		}
		html, err := renderPage(view, deps.MapboxToken)
		if err != nil {
			return errFromService(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(html)
	}
}

func renderPage(view *domain.PageView, token string) ([]byte, error) {
	// Points are fetched by the map as GeoJSON, keep the inline copy small.
	slim := *view
	route := *view.Route
	route.Points = nil
	slim.Route = &route

	data, err := json.Marshal(slim)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:     view.Route.Name + " | " + view.Variant.Title,
		RouteName: view.Route.Name,
		Theme:     view.Variant.Theme,
		Token:     token,
		View:      template.JS(data),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
