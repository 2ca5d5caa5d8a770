// Package visual renders analysis results as PNG plots and an interactive
// HTML page. Nothing here feeds back into the pipeline.
//
// PNG files (written by Plotter.WriteAll):
//
//	energy_comparison.png      per-frame energy of every dataset
//	energy_<slug>.png          per-frame energy of one dataset
//	energy_scatter_<slug>.png  the same curve as a scatter
//	motion_paths.png           motion path of every dataset
//	heatmap_<slug>.png         normalised raw heatmap with the motion path on top
package visual
