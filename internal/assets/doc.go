// Package assets supplies the stylesheet and HTML templates of the pages a
// proxy-tab delivery shows: the loading placeholder and the viewer.
//
// Assets are looked up by kind and bare name. A custom directory mirrors the
// embedded layout:
//
//	{dir}/styles/preview.css
//	{dir}/templates/placeholder.html
//	{dir}/templates/viewer.html
//
// A Resolver reads the custom directory first and falls back to the
// embedded copy for any asset the directory does not provide. Reads from a
// custom directory go through an os.Root, so neither names nor symlinks can
// reach files outside it.
package assets
