// Command server runs the termdeck terminal backend.
package main
