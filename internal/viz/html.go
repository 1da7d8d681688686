package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("matrix").Parse(htmlTemplate))
}

// templateData holds data for the HTML template.
type templateData struct {
	MatrixJSON template.JS
}

// GenerateHTML generates a self-contained HTML page for the similarity
// matrix. The page owns layout, coloring, and tooltip formatting; the data
// embedded in it is exactly the assembled record set plus axis labels.
func GenerateHTML(data *MatrixData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("matrix data cannot be nil")
	}

	if data.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	matrixJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding matrix data: %w", err)
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, templateData{
		MatrixJSON: template.JS(matrixJSON),
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// generateEmptyHTML returns HTML for an empty matrix state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Journal Similarity Matrix - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No matrix data</h2>
    <p>No journals with fingerprints found.</p>
    <p>Fetch fingerprints with <code>jfp fetch</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Journal Similarity Matrix</title>
  <script src="https://d3js.org/d3.v7.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 20px;
      background: #f5f5f5;
    }
    #matrix {
      background: white;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 320px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .pair {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .distance {
      color: #555;
      margin: 2px 0;
    }
    #tooltip .terms {
      font-style: italic;
      color: #666;
      margin-top: 4px;
    }
  </style>
</head>
<body>
  <svg id="matrix"></svg>
  <div id="tooltip"></div>
  <script>
    (function() {
      const data = {{.MatrixJSON}};
      const n = data.journals.length;
      const cell = 18;
      const margin = 160;
      const size = margin + n * cell + 20;

      const svg = d3.select('#matrix')
        .attr('width', size)
        .attr('height', size);

      const tooltip = d3.select('#tooltip');

      svg.selectAll('rect')
        .data(data.records)
        .enter()
        .append('rect')
        .attr('x', d => margin + d.col * cell)
        .attr('y', d => margin + d.row * cell)
        .attr('width', cell - 1)
        .attr('height', cell - 1)
        .attr('fill', d => d.category === 'diagonal' ? '#444' : '#2166ac')
        .attr('fill-opacity', d => d.category === 'upper' ? d.alpha
          : d.category === 'lower' ? mirrorAlpha(d) : 1)
        .on('mousemove', function(event, d) {
          tooltip
            .style('display', 'block')
            .style('left', (event.pageX + 12) + 'px')
            .style('top', (event.pageY + 12) + 'px')
            .html(tooltipHTML(d));
        })
        .on('mouseout', () => tooltip.style('display', 'none'));

      // Row labels
      svg.selectAll('text.row')
        .data(data.journals)
        .enter()
        .append('text')
        .attr('class', 'row')
        .attr('x', margin - 6)
        .attr('y', (d, i) => margin + i * cell + cell / 2 + 4)
        .attr('text-anchor', 'end')
        .attr('font-size', '11px')
        .text(d => d);

      // Column labels, rotated
      svg.selectAll('text.col')
        .data(data.journals)
        .enter()
        .append('text')
        .attr('class', 'col')
        .attr('transform', (d, i) =>
          'translate(' + (margin + i * cell + cell / 2 + 4) + ',' + (margin - 6) + ') rotate(-90)')
        .attr('font-size', '11px')
        .text(d => d);

      // Lower cells mirror the upper triangle's intensity for display.
      function mirrorAlpha(d) {
        const upper = data.records[d.col * n + d.row];
        return upper.alpha;
      }

      function tooltipHTML(d) {
        let html = '<div class="pair">' + d.row_journal;
        if (d.row_journal !== d.col_journal) {
          html += ' &times; ' + d.col_journal;
        }
        html += '</div>';
        if (d.category !== 'diagonal') {
          html += '<div class="distance">distance ' + d.distance.toFixed(3) + '</div>';
        }
        if (d.shared_terms.length > 0) {
          html += '<div class="terms">' + d.shared_terms.join(', ') + '</div>';
        }
        return html;
      }
    })();
  </script>
</body>
</html>`
