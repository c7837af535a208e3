package dashboard

import "html/template"

var pageTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>F1 Pitwall</title>
  <style>
    body { font-family: sans-serif; margin: 2em auto; max-width: 960px; }
    h1 { text-align: center; }
    fieldset { border: 1px solid #ccc; margin-bottom: 1em; }
    label { margin-right: 1em; }
    svg { border: 1px solid #ddd; width: 100%; height: 320px; margin-top: 1em; }
    #positions p { margin: 0.2em 0; }
    .error { color: #b00; }
  </style>
</head>
<body>
  <h1>&#127950; F1 Pitwall</h1>

  <fieldset>
    <legend>Session</legend>
    <label>Year
      <select id="year">
        <option>2019</option><option>2020</option><option>2021</option>
        <option>2022</option><option>2023</option><option selected>2024</option>
      </select>
    </label>
    <label>Grand Prix <input id="event" value="Monaco"></label>
    <label>Session
      <select id="kind">
        <option selected>Race</option><option>Qualifying</option>
        <option>FP1</option><option>FP2</option><option>FP3</option>
      </select>
    </label>
    <button id="load">Load session</button>
    <span id="status"></span>
  </fieldset>

  <fieldset id="driverBox" style="display:none">
    <legend>Drivers</legend>
    <div id="drivers"></div>
    <button id="visualize">Get data visualizations</button>
  </fieldset>

  <div id="positions"></div>
  <h3 id="lapTitle" style="display:none">Lap Times</h3>
  <svg id="lapChart"></svg>
  <h3 id="speedTitle" style="display:none">Speed Telemetry (Fastest Laps)</h3>
  <svg id="speedChart"></svg>

  <script>
    const status = document.getElementById('status');
    let socket = null;

    document.getElementById('load').addEventListener('click', async () => {
      status.textContent = 'Loading session…';
      status.className = '';
      clearCharts();
      try {
        const resp = await fetch('/api/session', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({
            year: parseInt(document.getElementById('year').value, 10),
            event: document.getElementById('event').value,
            kind: document.getElementById('kind').value
          })
        });
        const data = await resp.json();
        if (!resp.ok) { throw new Error(data.error); }
        renderDrivers(data.drivers || []);
        status.textContent = 'Loaded ' + data.event.name + ' ' + data.event.year + ' — ' + data.kind;
      } catch (err) {
        status.textContent = 'Failed to load: ' + err.message;
        status.className = 'error';
        document.getElementById('driverBox').style.display = 'none';
      }
    });

    document.getElementById('visualize').addEventListener('click', () => {
      const selected = Array.from(
        document.querySelectorAll('#drivers input:checked')).map(cb => cb.value);
      ensureSocket(() => socket.send(JSON.stringify({drivers: selected})));
    });

    function ensureSocket(onReady) {
      if (socket && socket.readyState === WebSocket.OPEN) { onReady(); return; }
      socket = new WebSocket('ws://' + location.host + '/ws');
      socket.addEventListener('open', onReady);
      socket.addEventListener('message', (event) => {
        const payload = JSON.parse(event.data);
        if (payload.error) {
          status.textContent = payload.error;
          status.className = 'error';
          return;
        }
        renderCharts(payload);
      });
    }

    function renderDrivers(drivers) {
      const box = document.getElementById('drivers');
      box.innerHTML = '';
      for (const d of drivers) {
        const label = document.createElement('label');
        const cb = document.createElement('input');
        cb.type = 'checkbox';
        cb.value = d.number;
        label.appendChild(cb);
        label.appendChild(document.createTextNode(' ' + d.name + ' (' + d.team + ')'));
        box.appendChild(label);
      }
      document.getElementById('driverBox').style.display = drivers.length ? '' : 'none';
    }

    function clearCharts() {
      document.getElementById('positions').innerHTML = '';
      for (const id of ['lapChart', 'speedChart']) {
        document.getElementById(id).innerHTML = '';
      }
      document.getElementById('lapTitle').style.display = 'none';
      document.getElementById('speedTitle').style.display = 'none';
    }

    function renderCharts(payload) {
      const posBox = document.getElementById('positions');
      posBox.innerHTML = '<h3>Driver Positions</h3>';
      for (const p of payload.positions) {
        const line = document.createElement('p');
        line.textContent = p.name + ': P' + p.position + (p.best ? ' (Best: ' + p.best + ')' : '');
        posBox.appendChild(line);
      }
      drawSeries('lapChart', 'lapTitle', payload.lapTimes);
      drawSeries('speedChart', 'speedTitle', payload.speed);
    }

    function drawSeries(svgId, titleId, seriesList) {
      const svg = document.getElementById(svgId);
      svg.innerHTML = '';
      document.getElementById(titleId).style.display = seriesList.length ? '' : 'none';
      if (!seriesList.length) { return; }

      const w = svg.clientWidth, h = svg.clientHeight, pad = 30;
      let minX = Infinity, maxX = -Infinity, minY = Infinity, maxY = -Infinity;
      for (const s of seriesList) {
        for (const x of s.x) { minX = Math.min(minX, x); maxX = Math.max(maxX, x); }
        for (const y of s.y) { minY = Math.min(minY, y); maxY = Math.max(maxY, y); }
      }
      const sx = x => pad + (x - minX) / (maxX - minX || 1) * (w - 2 * pad);
      const sy = y => h - pad - (y - minY) / (maxY - minY || 1) * (h - 2 * pad);

      for (const s of seriesList) {
        const line = document.createElementNS('http://www.w3.org/2000/svg', 'polyline');
        line.setAttribute('points', s.x.map((x, i) => sx(x) + ',' + sy(s.y[i])).join(' '));
        line.setAttribute('fill', 'none');
        line.setAttribute('stroke', s.color);
        line.setAttribute('stroke-width', '2');
        const title = document.createElementNS('http://www.w3.org/2000/svg', 'title');
        title.textContent = s.label;
        line.appendChild(title);
        svg.appendChild(line);
      }
    }
  </script>
</body>
</html>
`))
