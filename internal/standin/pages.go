package standin

import "html/template"

// page is the data rendered into the layout
type page struct {
	Title   string
	Route   string
	Plans   []plan
	Authed  bool
	Version string
}

type plan struct {
	ID      string
	Price   string
	Credits string
	Desc    string
}

var defaultPlans = []plan{
	{ID: "Basic", Price: "$10", Credits: "100 credits", Desc: "Best for personal use."},
	{ID: "Advanced", Price: "$50", Credits: "500 credits", Desc: "Best for business use."},
	{ID: "Business", Price: "$250", Credits: "5000 credits", Desc: "Best for enterprise use."},
}

var layout = template.Must(template.New("layout").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0 auto; max-width: 1100px; padding: 0 24px; }
.fixed { position: fixed; inset: 0; background: rgba(0,0,0,.3); display: flex; justify-content: center; align-items: center; z-index: 10; }
form.relative { position: relative; background: #fff; padding: 48px; border-radius: 12px; width: 420px; }
.absolute { position: absolute; top: 20px; right: 20px; cursor: pointer; width: 16px; height: 16px; }
.toast { position: fixed; top: 12px; right: 12px; background: #fdd; padding: 8px 16px; }
</style>
</head>
<body>
<div id="root">
  <div class="flex items-center justify-between py-2">
    <a href="/"><img src="/assets/logo_image_nobg.svg" alt="Logo-Image-Here" width="150"></a>
    <div>
      {{if .Authed}}
      <div class="flex items-center gap-2">
        <p class="text-gray-600">Hi, Test User</p>
        <img src="/assets/profile_icon.svg" class="w-10 drop-shadow cursor-pointer" alt="">
      </div>
      {{else}}
      <div class="flex items-center gap-2">
        <p onclick="location.href='/pricing'" class="cursor-pointer text">Pricing</p>
        <button onclick="openLogin()" class="text-white px-7 py-2 rounded-full cursor-pointer">Login</button>
      </div>
      {{end}}
    </div>
  </div>

  {{if eq .Route "pricing"}}
  <div class="min-h-[80vh] text-center pt-14 mb-10">
    <button class="border border-gray-400 px-10 py-2 rounded-full mb-6">Our Plans</button>
    <h1 class="text-center text-3xl font-medium mb-6">Choose the plan</h1>
    <div class="flex flex-wrap gap-6 justify-center">
      {{range .Plans}}
      <div class="bg-white drop-shadow-sm p-12 rounded-lg">
        <h2 class="text-xl font-semibold">{{.ID}}</h2>
        <h1 class="text-3xl font-bold">{{.Price}}</h1>
        <p>{{.Credits}}</p>
        <p>{{.Desc}}</p>
        <button class="w-full bg-gray-800 text-white mt-8">{{if $.Authed}}Purchase Now{{else}}Get Started{{end}}</button>
      </div>
      {{end}}
    </div>
  </div>
  {{else if and (eq .Route "result") .Authed}}
  <form class="flex flex-col items-center" onsubmit="event.preventDefault()">
    <img src="/assets/sample_img.svg" alt="" class="max-w-sm rounded">
    <div class="flex w-full max-w-xl text-white text-sm p-0.5 mt-10 rounded-full">
      <input type="text" placeholder="Describe what you want to generate" class="flex-1 bg-transparent outline-none ml-8">
      <button type="submit" class="px-16 py-3 rounded-full">Generate</button>
    </div>
  </form>
  {{else}}
  <div class="flex flex-col justify-center items-center text-center my-20">
    <div class="inline-flex gap-2 rounded-full px-6 py-1 border"><p>Best Text to Image Generator</p></div>
    <h1 class="text-4xl mx-auto mt-10 text-center">Turn text to <span>image</span>, in seconds.</h1>
    <p class="text-xl text-center mt-5">AI transforms your words into art.</p>
    <button onclick="generate()" class="sm:text-lg text-white mt-8 px-12 py-2.5 rounded-full cursor-pointer">Generate Images <img class="h-6" src="/assets/star_group.svg" alt=""></button>
  </div>
  <div class="flex flex-col items-center justify-center my-24 p-6">
    <h1 class="text-3xl font-semibold mb-2">Create AI Images</h1>
    <p class="text-gray-500 mb-8">Turn your imagination into visuals</p>
  </div>
  <div class="pb-16 text-center">
    <h1 class="text-2xl md:text-4xl font-semibold mt-4 py-6">See the magic. Try now</h1>
    <button onclick="generate()" class="inline-flex items-center gap-2 px-12 py-3 rounded-full">Generate Images</button>
  </div>
  {{end}}

  <div class="flex items-center justify-between gap-4 py-3 mt-20">
    <img src="/assets/logo.svg" alt="" width="150">
    <p class="flex-1 border-l pl-4 text-sm">Copyright @Texmage | All Rights Reserved.</p>
  </div>
</div>

<template id="login-template">
  <div id="login-modal" class="fixed top-0 left-0 right-0 bottom-0 z-10 flex justify-center items-center">
    <form class="relative bg-white p-12 rounded-xl text-slate-500" onsubmit="return submitAuth(event)">
      <h1 class="text-center text-3xl font-medium">Log In</h1>
      <p class="text-md mt-2 mb-2 text-center">Please <span class="mode">Log In</span> to continue</p>
      <div class="name-slot"></div>
      <div class="border px-6 py-3 rounded-full mt-4">
        <input name="email" class="outline-none text-sm flex-1" type="email" placeholder="Email Address" required>
      </div>
      <div class="border px-6 py-3 rounded-full mt-4">
        <input name="password" class="outline-none text-sm flex-1" type="password" placeholder="Password" required>
      </div>
      <button class="w-full rounded-full cursor-pointer mb-3 text-white p-1.5">Login</button>
      <p class="text-center switch">Don't have an account? <span class="text-blue-600 cursor-pointer" onclick="setMode('Sign Up')">Sign Up</span></p>
      <img onclick="closeLogin()" src="/assets/cross_icon.svg" alt="" class="absolute top-5 right-5 cursor-pointer">
    </form>
  </div>
</template>

<script>
var authed = {{.Authed}};
function modal() { return document.getElementById('login-modal'); }
function openLogin() {
  if (modal()) return;
  var t = document.getElementById('login-template');
  document.body.appendChild(t.content.cloneNode(true));
  setMode('Log In');
}
function closeLogin() { var m = modal(); if (m) m.remove(); }
function setMode(mode) {
  var m = modal();
  m.querySelector('h1').textContent = mode;
  m.querySelector('.mode').textContent = mode;
  m.querySelector('button').textContent = mode === 'Log In' ? 'Login' : 'Create Account';
  var slot = m.querySelector('.name-slot');
  slot.innerHTML = mode === 'Log In' ? '' :
    '<div class="border px-6 py-3 rounded-full mt-5"><input name="name" class="outline-none text-sm flex-1" type="text" placeholder="Full Name" required></div>';
  var sw = m.querySelector('.switch');
  sw.innerHTML = mode === 'Log In'
    ? 'Don\'t have an account? <span class="text-blue-600 cursor-pointer" onclick="setMode(\'Sign Up\')">Sign Up</span>'
    : 'Already have an account? <span class="text-blue-600 cursor-pointer" onclick="setMode(\'Log In\')">Log In</span>';
}
function toast(msg) {
  var d = document.createElement('div');
  d.className = 'toast';
  d.textContent = msg;
  document.body.appendChild(d);
  setTimeout(function () { d.remove(); }, 3000);
}
function submitAuth(e) {
  e.preventDefault();
  var f = e.target;
  var signup = f.querySelector('h1').textContent !== 'Log In';
  var body = new URLSearchParams(new FormData(f));
  fetch(signup ? '/api/signup' : '/api/login', { method: 'POST', body: body })
    .then(function (r) { return r.json(); })
    .then(function (data) {
      if (data.success) { closeLogin(); location.reload(); } else { toast(data.message); }
    })
    .catch(function (err) { toast(err.message); });
  return false;
}
function generate() { if (authed) { location.href = '/result'; } else { openLogin(); } }
document.addEventListener('keydown', function (e) { if (e.key === 'Escape') closeLogin(); });
</script>
</body>
</html>
`))

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 16 16"><rect width="16" height="16" fill="#1abc9c"/></svg>`
